// Package data provides the attribute/value object model consumed by the
// translation and clustering packages.
//
// # Overview
//
// A [Domain] describes the schema of a data set: an ordered list of attribute
// [Variable]s, an optional class variable and meta attributes addressed by
// negative IDs. An [Example] is one row of values over a domain and a [Table]
// is a domain together with its examples.
//
// Variables are either continuous (real valued) or discrete (one of a fixed
// list of labels). A [Value] stores the numeric payload in both cases; for a
// discrete variable it is the index into [Variable.Values]. Unknown values are
// represented with the Missing flag.
//
// # Reading Data
//
// [ReadTab] parses the three-header-line, tab-separated format:
//
//	sepal length	sepal width	iris
//	c	c	Iris-setosa Iris-versicolor Iris-virginica
//			class
//	5.1	3.5	Iris-setosa
//
// The second line holds the variable types ("c", "d", a space-separated list
// of discrete values, or empty to infer) and the third line the flags
// ("class", "meta", "ignore").
//
// # Domain Disparity
//
// [Example.Lookup] resolves a variable first by reference and then by name so
// that encoders learned on one domain can be applied to examples of another
// domain with the same attribute names.
package data
