package superset

// Version is the library version reported in the default User-Agent header.
const Version = "1.0.0"

// DefaultUserAgent identifies this client to the Superset server.
const DefaultUserAgent = "superset-go/" + Version
