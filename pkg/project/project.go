package project

// Name is reported to language servers and MCP clients
const Name = "vooshi"

// Version is the current release of vooshi
const Version = "0.1.0"
