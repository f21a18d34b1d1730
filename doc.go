// The [trilium] package implements a typed client for the [Trilium ETAPI] in the Go way.
//
// # Client
//
// [New] builds a [Client] from a [Config]. The client talks plain HTTP/JSON
// to a Trilium server's /etapi surface and exposes one method group per
// entity: notes, branches, attributes, attachments, plus the calendar,
// authentication and server utility endpoints.
//
// Every method takes a [context.Context] and returns typed entities from
// this package. For endpoints without a typed wrapper, [Client.Request] is
// the low-level escape hatch: it sends any JSON body and hands back the raw
// response payload.
//
// # Searching
//
// [Client.SearchNotes] passes a query string through to the server's search
// endpoint. Query strings can be written by hand, or assembled from a
// condition tree with the [github.com/trilium-community/trilium.go/searchql]
// package.
//
// # Mapping notes onto structs
//
// The [github.com/trilium-community/trilium.go/notemap] package converts
// notes into caller-defined struct types via a declarative per-field
// configuration, including a batch search-and-map composition on top of
// [Client.SearchNotes].
//
// [Trilium ETAPI]: https://github.com/TriliumNext/Notes/wiki/ETAPI
package trilium
