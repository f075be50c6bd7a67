// Package tui is the interactive dashboard: a header, the reverser and
// summation widgets side by side, and a key help footer. The root model owns
// widget mounting and routes each response back to the widget that sent it.
package tui
