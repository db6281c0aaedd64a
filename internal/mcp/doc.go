// Package mcp exposes a recorder as Model Context Protocol tools.
//
// ToolServer keeps a registry of tools that can be invoked directly with
// CallTool or served to MCP clients through Server. RegisterRecorderTools
// fills the registry with the recorder operations an agent needs: querying
// the machine, starting and stopping recordings, and splitting files.
package mcp
