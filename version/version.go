package version

// VERSION is the canbustiming release
var VERSION = "0.1.0"
