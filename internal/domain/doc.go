// Package domain contains the core entities of the sync tool: the Card value
// extracted from documents, the byte Span locating it, and the records that
// describe a sync run. It has no knowledge of documents on disk or of the
// remote note store.
package domain
