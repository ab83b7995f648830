// Package txttable reads and writes plain-text tables whose columns are
// described by comment lines:
//
//	# Column 1: RA [deg,f64,nan] Right ascension
//	# Column 2: COUNT [counter,i32,-1]
//	# Column 3: NAME [,str8,]
//	10.5 3 "alpha 1"
//	nan -1 beta
//
// Each column becomes a one-dimensional array. Tokens equal to the column's
// blank token become the blank of the column kind; writing prints them back
// as that token.
package txttable
