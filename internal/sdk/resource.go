package sdk

import (
	"context"
	"fmt"
	"net/url"
)

// Resource is one remote resource object. The remote schema is not
// fixed, so fields are kept generic.
type Resource map[string]any

// ResourceList is a page of resources with pagination metadata.
type ResourceList struct {
	Items []Resource `json:"items"`
	Total int        `json:"total"`
}

// Resources exposes CRUD operations on the remote resource collection.
type Resources struct {
	client *Client
}

// NewResources creates the resource operations bound to a client.
func NewResources(client *Client) *Resources {
	return &Resources{client: client}
}

// Get fetches a resource by ID.
// Returns ErrResourceNotFound if the resource doesn't exist.
func (r *Resources) Get(ctx context.Context, resourceID string) (Resource, error) {
	if resourceID == "" {
		return nil, fmt.Errorf("%w: resource ID is required", ErrValidation)
	}

	var out Resource
	if err := r.client.Get(ctx, "/resources/"+resourceID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create creates a new resource from the given data.
func (r *Resources) Create(ctx context.Context, data Resource) (Resource, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: resource data is required", ErrValidation)
	}

	var out Resource
	if err := r.client.Post(ctx, "/resources/", data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces a resource's data.
// Returns ErrResourceNotFound if the resource doesn't exist.
func (r *Resources) Update(ctx context.Context, resourceID string, data Resource) (Resource, error) {
	if resourceID == "" {
		return nil, fmt.Errorf("%w: resource ID is required", ErrValidation)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: resource data is required", ErrValidation)
	}

	var out Resource
	if err := r.client.Put(ctx, "/resources/"+resourceID, data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a resource by ID.
// Returns ErrResourceNotFound if the resource doesn't exist.
func (r *Resources) Delete(ctx context.Context, resourceID string) error {
	if resourceID == "" {
		return fmt.Errorf("%w: resource ID is required", ErrValidation)
	}
	return r.client.Delete(ctx, "/resources/"+resourceID, nil)
}

// List fetches a page of resources. Params may carry pagination and
// filter options; nil means remote defaults.
func (r *Resources) List(ctx context.Context, params url.Values) (*ResourceList, error) {
	var out ResourceList
	if err := r.client.Get(ctx, "/resources/", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
