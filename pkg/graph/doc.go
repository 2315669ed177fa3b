// Package graph reads and writes the JSON wire formats of dfdlayout.
//
// Two documents cross the process boundary:
//
//   - the parser graph ([dfd.Graph]) going in
//   - the positioned [Layout] coming out
//
// Both are used for files, HTTP bodies and cache entries, so encoding is
// deterministic: the same value always marshals to the same bytes and can
// be hashed into a cache key.
//
// # Graph Input
//
//	{
//	  "nodes": [
//	    {"id": "t1", "type": "table", "label": "orders", "columns": ["id", "total"]},
//	    {"id": "l1", "type": "logic", "label": "WHERE", "logicType": "where"}
//	  ],
//	  "edges": [{"id": "edge-1", "source": "t1", "target": "l1"}]
//	}
//
// [ReadGraph] decodes, assigns "edge-N" ids to edges without one and
// validates node ids, types and edge endpoints:
//
//	g, err := graph.ReadGraphFile("query.dfd.json")
//	data, _ := graph.MarshalGraph(g)
//
// # Layout Output
//
// A [Layout] is a diagram plus the options that produced it and, when
// requested, diagnostics such as merge points and lane groups:
//
//	l := graph.FromResult(res, opts)
//	graph.WriteLayoutFile(l, "query.layout.json")
//
// # Errors
//
// Decode failures are INVALID_INPUT, missing files FILE_NOT_FOUND and graph
// contract violations keep the codes assigned by [dfd.Graph.Validate].
package graph
