package rest_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/kbukum/reststack/rest"
	"github.com/kbukum/reststack/serializer"
	"github.com/kbukum/reststack/testutil"
	"github.com/kbukum/reststack/testutil/fixtures"
)

// PostsClient is a domain client built on rest.Client.
type PostsClient struct {
	*rest.Client
	post  serializer.Serializer[fixtures.Post]
	posts serializer.Serializer[[]fixtures.Post]
}

func NewPostsClient(endpoint string, opts ...rest.Option) (*PostsClient, error) {
	c, err := rest.New(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return &PostsClient{
		Client: c,
		post:   serializer.NewJSON[fixtures.Post](),
		posts:  serializer.NewJSON[[]fixtures.Post](),
	}, nil
}

func (c *PostsClient) GetPosts(ctx context.Context) rest.Response[[]fixtures.Post] {
	return rest.Get(ctx, c.Client, "posts", c.posts)
}

func (c *PostsClient) GetPost(ctx context.Context, id int) rest.Response[fixtures.Post] {
	return rest.Get(ctx, c.Client, fmt.Sprintf("posts/%d", id), c.post)
}

func (c *PostsClient) CreatePost(ctx context.Context, p fixtures.Post) *rest.Future[rest.Response[fixtures.Post]] {
	return rest.PostAsync(ctx, c.Client, "posts", p, "application/json", c.post)
}

func (c *PostsClient) EditPost(ctx context.Context, p fixtures.Post) rest.Response[fixtures.Post] {
	return rest.Put(ctx, c.Client, fmt.Sprintf("posts/%d", p.ID), p, "application/json", c.post)
}

func (c *PostsClient) DeletePost(ctx context.Context, id int) *rest.Future[rest.Result] {
	return rest.DeleteAsync(ctx, c.Client, fmt.Sprintf("posts/%d", id))
}

func newPostsClient(t *testing.T) (*PostsClient, *testutil.PostsAPI) {
	t.Helper()
	api := testutil.StartPostsAPI(t)
	c, err := NewPostsClient(api.BaseURL() + "/")
	if err != nil {
		t.Fatalf("NewPostsClient: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, api
}

func TestPostsClient_GetPosts(t *testing.T) {
	c, _ := newPostsClient(t)

	resp := c.GetPosts(context.Background())
	if !resp.Success || resp.StatusCode != 200 {
		t.Fatalf("GetPosts() = %v", resp.Result)
	}
	if len(resp.Data) == 0 {
		t.Error("expected posts")
	}
}

func TestPostsClient_GetPost(t *testing.T) {
	c, _ := newPostsClient(t)

	resp := c.GetPost(context.Background(), 1)
	if !resp.Success || resp.StatusCode != 200 {
		t.Fatalf("GetPost() = %v", resp.Result)
	}
	if resp.Data.ID != 1 {
		t.Errorf("ID = %d, want 1", resp.Data.ID)
	}
}

func TestPostsClient_EditPost(t *testing.T) {
	c, api := newPostsClient(t)

	edited := fixtures.Post{UserID: 1, ID: 1, Title: "edited", Body: "new body"}
	resp := c.EditPost(context.Background(), edited)
	if !resp.Success || resp.StatusCode != 200 {
		t.Fatalf("EditPost() = %v", resp.Result)
	}
	if resp.Data.Body != "new body" {
		t.Errorf("Body = %q", resp.Data.Body)
	}
	if stored, _ := api.Post(1); stored.Title != "edited" {
		t.Errorf("stored post = %+v", stored)
	}
}

func TestPostsClient_CreatePost(t *testing.T) {
	c, _ := newPostsClient(t)

	resp := c.CreatePost(context.Background(), fixtures.Post{UserID: 1, Title: "new", Body: "post"}).Await()
	if !resp.Success || resp.StatusCode != 201 {
		t.Fatalf("CreatePost() = %v", resp.Result)
	}
	if resp.Data.ID == 1 || resp.Data.ID == 0 {
		t.Errorf("expected a fresh id, got %d", resp.Data.ID)
	}
}

func TestPostsClient_DeletePost(t *testing.T) {
	c, api := newPostsClient(t)

	res := c.DeletePost(context.Background(), 2).Await()
	if !res.Success || res.StatusCode != 200 {
		t.Fatalf("DeletePost() = %v", res)
	}
	if _, ok := api.Post(2); ok {
		t.Error("post 2 should be gone")
	}

	res = c.DeletePost(context.Background(), 2).Await()
	if res.Success || res.StatusCode != 404 {
		t.Errorf("second DeletePost() = %v, want 404", res)
	}
}
