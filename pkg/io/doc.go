// Package io provides JSON import and export for clustering trees.
//
// # JSON Format
//
// A tree is stored as nested nodes. Merge nodes carry a height and two
// branches; leaves carry the index of the clustered item:
//
//	{
//	  "labels": ["setosa", "setosa", "virginica"],
//	  "linkage": "average",
//	  "ordered": true,
//	  "cost": 1.75,
//	  "root": {
//	    "height": 2.5,
//	    "left":  {"item": 2},
//	    "right": {"height": 0.4, "left": {"item": 0}, "right": {"item": 1}}
//	  }
//	}
//
// Branch order is significant: it is the leaf order of the dendrogram, so a
// tree exported after leaf ordering re-imports with the same order.
//
// Use [ReadJSON] and [WriteJSON] for streams and [ImportJSON] and
// [ExportJSON] for files. The pipeline also uses this format to cache
// clustering results.
package io
