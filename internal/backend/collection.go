// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/olegiv/finpanel/internal/wire"
)

// record is what every decoded draft must expose.
type record interface {
	EntityID() int64
}

// Collection is a REST resource with list/create/update/delete endpoints.
// R is the wire record, D the draft type.
type Collection[R any, D record] struct {
	client *Client
	path   string
	decode func(R) D
	encode func(D) (any, error)
}

// NewCollection binds a resource path to its wire codecs. encode may return
// a wire.MultipartPayload for file-bearing resources.
func NewCollection[R any, D record](c *Client, path string, decode func(R) D, encode func(D) (any, error)) *Collection[R, D] {
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return &Collection[R, D]{client: c, path: path, decode: decode, encode: encode}
}

// Path returns the collection path.
func (c *Collection[R, D]) Path() string { return c.path }

func (c *Collection[R, D]) itemPath(id int64) string {
	return fmt.Sprintf("%s%d/", c.path, id)
}

// List fetches every record. Records without a server id are skipped.
func (c *Collection[R, D]) List(ctx context.Context) ([]D, error) {
	records, err := GetList[R](ctx, c.client, c.path, nil)
	if err != nil {
		return nil, err
	}

	out := make([]D, 0, len(records))
	for _, r := range records {
		d := c.decode(r)
		if d.EntityID() == 0 {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Create posts a new record and returns the server-assigned id.
func (c *Collection[R, D]) Create(ctx context.Context, draft D) (int64, error) {
	var created struct {
		ID int64 `json:"id"`
	}
	if err := c.send(ctx, http.MethodPost, c.path, draft, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// Update replaces the record with the given id.
func (c *Collection[R, D]) Update(ctx context.Context, id int64, draft D) error {
	return c.send(ctx, http.MethodPut, c.itemPath(id), draft, nil)
}

// Delete removes the record with the given id.
func (c *Collection[R, D]) Delete(ctx context.Context, id int64) error {
	return c.client.SendJSON(ctx, http.MethodDelete, c.itemPath(id), nil, nil)
}

func (c *Collection[R, D]) send(ctx context.Context, method, path string, draft D, result any) error {
	payload, err := c.encode(draft)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.path, err)
	}
	if mp, ok := payload.(wire.MultipartPayload); ok {
		return c.client.SendMultipart(ctx, method, path, mp, result)
	}
	return c.client.SendJSON(ctx, method, path, payload, result)
}
