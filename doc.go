/*
Package pushindexer ingests source-control push events into Elasticsearch.
Each commit of a push becomes one document, keyed by the commit SHA, so
re-delivering the same push overwrites instead of duplicating. A single
invocation checks the engine is reachable, provisions the index when absent,
and ships every commit in one bulk request.
*/
package pushindexer
