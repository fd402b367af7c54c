// Package serializer converts typed values to and from their textual wire
// representation.
//
// A Serializer[T] is stateless across calls and may hold immutable
// configuration. Every implementation declares the text encoding its output
// is transmitted in, so the REST executor can operate on any of them without
// knowing the concrete format:
//
//	users := serializer.NewJSON[[]User]()
//	doc := serializer.NewXML[Invoice](charmap.ISO8859_1, serializer.WithXMLIndent("", "  "))
//
// Round trip law: for a fixed configuration, Deserialize(Serialize(v)) equals v
// for every value the format can represent.
package serializer
