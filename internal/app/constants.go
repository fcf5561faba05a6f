package app

// DefaultAvatar is assigned to players who join without choosing one.
// Keep this centralized so the roster always renders with a glyph.
const DefaultAvatar = "🧑‍💼"
