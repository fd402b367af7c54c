// Package fixtures holds the data served by the fake Posts API and shared by
// client tests.
package fixtures

import (
	"encoding/xml"
	"sort"
)

// Post is a blog post in the shape served by jsonplaceholder-style APIs.
type Post struct {
	XMLName xml.Name `json:"-" yaml:"-" xml:"post"`
	UserID  int      `json:"userId" yaml:"userId" xml:"userId"`
	ID      int      `json:"id" yaml:"id" xml:"id"`
	Title   string   `json:"title" yaml:"title" xml:"title"`
	Body    string   `json:"body" yaml:"body" xml:"body"`
}

// Same reports whether p and other carry the same fields, ignoring XMLName.
func (p Post) Same(other Post) bool {
	return p.UserID == other.UserID && p.ID == other.ID && p.Title == other.Title && p.Body == other.Body
}

// PostList is the XML document for a list of posts.
type PostList struct {
	XMLName xml.Name `xml:"posts"`
	Posts   []Post   `xml:"post"`
}

// Echo describes the request the fake API received.
type Echo struct {
	Method      string              `json:"method"`
	Path        string              `json:"path"`
	Query       string              `json:"query"`
	Header      map[string][]string `json:"header"`
	ContentType string              `json:"contentType"`
	Body        string              `json:"body"`
}

// Widget is a minimal payload for decode tests.
type Widget struct {
	ID   int    `json:"id" yaml:"id" xml:"id"`
	Name string `json:"name" yaml:"name" xml:"name"`
}

// Posts returns the seed posts, ordered by ID. Post 3 has a title outside
// ASCII but inside ISO-8859-1.
func Posts() []Post {
	return []Post{
		{UserID: 1, ID: 1, Title: "sunt aut facere repellat", Body: "quia et suscipit"},
		{UserID: 1, ID: 2, Title: "qui est esse", Body: "est rerum tempore vitae"},
		{UserID: 2, ID: 3, Title: "café crème à la carte", Body: "voilà, señor"},
	}
}

// SortPosts orders posts by ID in place.
func SortPosts(posts []Post) {
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
}
