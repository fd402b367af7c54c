package testutil

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/charmap"

	"github.com/kbukum/reststack/component"
	"github.com/kbukum/reststack/serializer"
	"github.com/kbukum/reststack/testutil/fixtures"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// XMLCharset is the charset of every XML document the fake API sends.
const XMLCharset = "ISO-8859-1"

// PostsAPI is an in-memory Posts API served by httptest.Server. It implements
// TestComponent, so state can be reset or snapshotted between cases.
//
// Routes:
//
//	GET    /posts            list, JSON
//	GET    /posts/:id        one post, JSON; 404 when missing
//	POST   /posts            create, 201 with the assigned id
//	PUT    /posts/:id        replace, 200; 404 when missing
//	DELETE /posts/:id        200 with {}; 404 when missing
//	GET    /xml/posts        list, ISO-8859-1 XML
//	GET    /xml/posts/:id    one post, ISO-8859-1 XML
//	POST   /xml/posts        create from XML in any declared charset
//	GET    /yaml/posts/:id   one post, YAML
//	GET    /malformed        200 with a truncated JSON body
//	GET    /slow             waits ?delay= (default 2s) or until the caller gives up
//	GET    /status/:code     replies with code
//	ANY    /echo             the received request as JSON
type PostsAPI struct {
	mu      sync.RWMutex
	engine  *gin.Engine
	ts      *httptest.Server
	posts   map[int]fixtures.Post
	nextID  int
	started bool

	xml *serializer.XML[fixtures.Post]
}

var (
	_ component.Component = (*PostsAPI)(nil)
	_ TestComponent       = (*PostsAPI)(nil)
)

type postsState struct {
	posts  map[int]fixtures.Post
	nextID int
}

// NewPostsAPI creates the fake API seeded with fixtures.Posts.
func NewPostsAPI() *PostsAPI {
	a := &PostsAPI{
		engine: gin.New(),
		xml:    serializer.NewXML[fixtures.Post](charmap.ISO8859_1),
	}
	a.seed()
	a.routes()
	return a
}

// Engine returns the gin engine so tests can mount extra routes before Start.
func (a *PostsAPI) Engine() *gin.Engine {
	return a.engine
}

// BaseURL returns the server's base URL (e.g. "http://127.0.0.1:PORT").
// Returns empty string if not started.
func (a *PostsAPI) BaseURL() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.ts == nil {
		return ""
	}
	return a.ts.URL
}

// Post returns a stored post.
func (a *PostsAPI) Post(id int) (fixtures.Post, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p, ok := a.posts[id]
	return p, ok
}

// Len returns the number of stored posts.
func (a *PostsAPI) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.posts)
}

// --- component.Component ---

func (a *PostsAPI) Name() string { return "posts-api" }

func (a *PostsAPI) Start(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return fmt.Errorf("component already started")
	}
	a.ts = httptest.NewServer(a.engine)
	a.started = true
	return nil
}

func (a *PostsAPI) Stop(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started || a.ts == nil {
		return nil
	}
	a.ts.Close()
	a.started = false
	return nil
}

func (a *PostsAPI) Health(_ context.Context) component.Health {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.started {
		return component.Health{Name: a.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: a.Name(), Status: component.StatusHealthy}
}

// --- TestComponent ---

// Reset restores the seed posts.
func (a *PostsAPI) Reset(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seedLocked()
	return nil
}

// Snapshot copies the stored posts.
func (a *PostsAPI) Snapshot(_ context.Context) (interface{}, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return postsState{posts: copyPosts(a.posts), nextID: a.nextID}, nil
}

// Restore replaces the stored posts with a snapshot.
func (a *PostsAPI) Restore(_ context.Context, snapshot interface{}) error {
	state, ok := snapshot.(postsState)
	if !ok {
		return fmt.Errorf("invalid snapshot type %T", snapshot)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.posts = copyPosts(state.posts)
	a.nextID = state.nextID
	return nil
}

func (a *PostsAPI) seed() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seedLocked()
}

func (a *PostsAPI) seedLocked() {
	a.posts = make(map[int]fixtures.Post)
	a.nextID = 1
	for _, p := range fixtures.Posts() {
		a.posts[p.ID] = p
		if p.ID >= a.nextID {
			a.nextID = p.ID + 1
		}
	}
}

func copyPosts(src map[int]fixtures.Post) map[int]fixtures.Post {
	dst := make(map[int]fixtures.Post, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// --- handlers ---

func (a *PostsAPI) routes() {
	r := a.engine
	r.GET("/posts", a.listPosts)
	r.GET("/posts/:id", a.getPost)
	r.POST("/posts", a.createPost)
	r.PUT("/posts/:id", a.replacePost)
	r.DELETE("/posts/:id", a.deletePost)

	r.GET("/xml/posts", a.listPostsXML)
	r.GET("/xml/posts/:id", a.getPostXML)
	r.POST("/xml/posts", a.createPostXML)
	r.GET("/yaml/posts/:id", a.getPostYAML)

	r.GET("/malformed", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(`{"id": 1, "title": `))
	})
	r.GET("/slow", slow)
	r.GET("/status/:code", status)
	r.Any("/echo", echo)
	r.Any("/echo/*rest", echo)
}

func (a *PostsAPI) sortedPosts() []fixtures.Post {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]fixtures.Post, 0, len(a.posts))
	for _, p := range a.posts {
		out = append(out, p)
	}
	fixtures.SortPosts(out)
	return out
}

func (a *PostsAPI) lookup(c *gin.Context) (fixtures.Post, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return fixtures.Post{}, false
	}
	p, ok := a.Post(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{})
		return fixtures.Post{}, false
	}
	return p, true
}

func (a *PostsAPI) listPosts(c *gin.Context) {
	c.JSON(http.StatusOK, a.sortedPosts())
}

func (a *PostsAPI) getPost(c *gin.Context) {
	if p, ok := a.lookup(c); ok {
		c.JSON(http.StatusOK, p)
	}
}

func (a *PostsAPI) createPost(c *gin.Context) {
	var p fixtures.Post
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, a.insert(p))
}

func (a *PostsAPI) replacePost(c *gin.Context) {
	existing, ok := a.lookup(c)
	if !ok {
		return
	}
	var p fixtures.Post
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = existing.ID

	a.mu.Lock()
	a.posts[p.ID] = p
	a.mu.Unlock()
	c.JSON(http.StatusOK, p)
}

func (a *PostsAPI) deletePost(c *gin.Context) {
	p, ok := a.lookup(c)
	if !ok {
		return
	}
	a.mu.Lock()
	delete(a.posts, p.ID)
	a.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{})
}

func (a *PostsAPI) insert(p fixtures.Post) fixtures.Post {
	a.mu.Lock()
	defer a.mu.Unlock()
	p.ID = a.nextID
	a.nextID++
	a.posts[p.ID] = p
	return p
}

func (a *PostsAPI) writeXML(c *gin.Context, code int, v any) {
	var text string
	var err error
	switch doc := v.(type) {
	case fixtures.Post:
		text, err = a.xml.Serialize(doc)
	case fixtures.PostList:
		text, err = serializer.NewXML[fixtures.PostList](charmap.ISO8859_1).Serialize(doc)
	default:
		err = fmt.Errorf("unsupported document %T", v)
	}
	if err == nil {
		var b []byte
		if b, err = serializer.EncodeText(charmap.ISO8859_1, text); err == nil {
			c.Data(code, "application/xml; charset="+XMLCharset, b)
			return
		}
	}
	c.String(http.StatusInternalServerError, err.Error())
}

func (a *PostsAPI) listPostsXML(c *gin.Context) {
	a.writeXML(c, http.StatusOK, fixtures.PostList{Posts: a.sortedPosts()})
}

func (a *PostsAPI) getPostXML(c *gin.Context) {
	if p, ok := a.lookup(c); ok {
		a.writeXML(c, http.StatusOK, p)
	}
}

// createPostXML decodes the body with the charset named in its Content-Type.
func (a *PostsAPI) createPostXML(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	enc := serializer.UTF8
	if _, params, err := mime.ParseMediaType(c.GetHeader("Content-Type")); err == nil && params["charset"] != "" {
		if enc, err = serializer.LookupEncoding(params["charset"]); err != nil {
			c.String(http.StatusUnsupportedMediaType, err.Error())
			return
		}
	}
	text, err := serializer.DecodeText(enc, raw)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	p, err := a.xml.Deserialize(text)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	a.writeXML(c, http.StatusCreated, a.insert(p))
}

func (a *PostsAPI) getPostYAML(c *gin.Context) {
	if p, ok := a.lookup(c); ok {
		c.YAML(http.StatusOK, p)
	}
}

func slow(c *gin.Context) {
	delay := 2 * time.Second
	if d, err := time.ParseDuration(c.Query("delay")); err == nil {
		delay = d
	}
	select {
	case <-time.After(delay):
		c.JSON(http.StatusOK, fixtures.Widget{ID: 1, Name: "slow"})
	case <-c.Request.Context().Done():
	}
}

func status(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 100 || code > 999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	c.JSON(code, gin.H{"status": code})
}

func echo(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.JSON(http.StatusOK, fixtures.Echo{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Query:       c.Request.URL.RawQuery,
		Header:      c.Request.Header,
		ContentType: c.GetHeader("Content-Type"),
		Body:        string(body),
	})
}
