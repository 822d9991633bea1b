// Package hcl reads template definitions written in HCL and converts between
// expression trees and their cty representation.
//
// A template file holds any number of blocks of the form
//
//	template "square" {
//	  params = ["x"]
//	  body   = [param("x"), "²"]
//	}
//
// Bodies are ordinary HCL tuples. Strings, numbers and bools become text;
// structure is built with the constructor functions registered in
// Functions (param, call, group, emph, heading, para, eq, frac, matrix,
// scripts, slot). Each constructor returns a node object: a cty object
// whose "kind" attribute names the node. The same encoding is used by
// Encode and Decode, so node objects written by the exporter read back into
// the same tree.
package hcl
