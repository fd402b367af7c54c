package rest

import (
	"context"
	"net/http"

	"github.com/kbukum/reststack/errors"
	"github.com/kbukum/reststack/serializer"
)

// Get fetches target and decodes the body with s.
func Get[T any](ctx context.Context, c *Client, target string, s serializer.Serializer[T]) Response[T] {
	var none struct{}
	return exchange[struct{}, T](ctx, c, http.MethodGet, target, none, false, "", nil, s)
}

// GetAsync is the non-blocking form of Get.
func GetAsync[T any](ctx context.Context, c *Client, target string, s serializer.Serializer[T]) *Future[Response[T]] {
	return async(func() Response[T] { return Get(ctx, c, target, s) })
}

// PutExchange replaces target with body encoded by reqS and decodes the
// response with respS. An empty mediaType uses the media type of reqS.
func PutExchange[Req, Resp any](ctx context.Context, c *Client, target string, body Req, mediaType string,
	reqS serializer.Serializer[Req], respS serializer.Serializer[Resp]) Response[Resp] {
	return exchange(ctx, c, http.MethodPut, target, body, true, mediaType, reqS, respS)
}

// PutExchangeAsync is the non-blocking form of PutExchange.
func PutExchangeAsync[Req, Resp any](ctx context.Context, c *Client, target string, body Req, mediaType string,
	reqS serializer.Serializer[Req], respS serializer.Serializer[Resp]) *Future[Response[Resp]] {
	return async(func() Response[Resp] { return PutExchange(ctx, c, target, body, mediaType, reqS, respS) })
}

// Put is PutExchange for a request and response of the same type.
func Put[T any](ctx context.Context, c *Client, target string, body T, mediaType string, s serializer.Serializer[T]) Response[T] {
	return PutExchange(ctx, c, target, body, mediaType, s, s)
}

// PutAsync is the non-blocking form of Put.
func PutAsync[T any](ctx context.Context, c *Client, target string, body T, mediaType string, s serializer.Serializer[T]) *Future[Response[T]] {
	return async(func() Response[T] { return Put(ctx, c, target, body, mediaType, s) })
}

// PostExchange submits body encoded by reqS to target and decodes the
// response with respS. An empty mediaType uses the media type of reqS.
func PostExchange[Req, Resp any](ctx context.Context, c *Client, target string, body Req, mediaType string,
	reqS serializer.Serializer[Req], respS serializer.Serializer[Resp]) Response[Resp] {
	return exchange(ctx, c, http.MethodPost, target, body, true, mediaType, reqS, respS)
}

// PostExchangeAsync is the non-blocking form of PostExchange.
func PostExchangeAsync[Req, Resp any](ctx context.Context, c *Client, target string, body Req, mediaType string,
	reqS serializer.Serializer[Req], respS serializer.Serializer[Resp]) *Future[Response[Resp]] {
	return async(func() Response[Resp] { return PostExchange(ctx, c, target, body, mediaType, reqS, respS) })
}

// Post is PostExchange for a request and response of the same type.
func Post[T any](ctx context.Context, c *Client, target string, body T, mediaType string, s serializer.Serializer[T]) Response[T] {
	return PostExchange(ctx, c, target, body, mediaType, s, s)
}

// PostAsync is the non-blocking form of Post.
func PostAsync[T any](ctx context.Context, c *Client, target string, body T, mediaType string, s serializer.Serializer[T]) *Future[Response[T]] {
	return async(func() Response[T] { return Post(ctx, c, target, body, mediaType, s) })
}

// Delete removes target. The response body is never decoded.
func Delete(ctx context.Context, c *Client, target string) Result {
	if c == nil {
		return Failed(StatusInternalError, errors.New(errors.ErrCodeInvalidConfig, "client is nil"))
	}
	return c.send(ctx, http.MethodDelete, target, nil, nil, nil)
}

// DeleteAsync is the non-blocking form of Delete.
func DeleteAsync(ctx context.Context, c *Client, target string) *Future[Result] {
	return async(func() Result { return Delete(ctx, c, target) })
}
