// Package backend is a reference implementation of the two number
// endpoints. Numbers are handled as decimal text, so inputs of any length
// are accepted.
//
//	POST /reverser   {"num": "1200"}  -> {"num": 21}
//	POST /summation  {"num": "1234"}  -> {"sum": 10}
//	GET  /           Hello world
package backend
