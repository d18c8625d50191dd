package http

import "github.com/bookmycampus/campus-booking-backend/internal/resource"

type ResourceResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Capacity int    `json:"capacity"`
}

func NewResourceResponse(r resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:       r.ID,
		Name:     r.Name,
		Category: string(r.Category),
		Capacity: r.Capacity,
	}
}

// ResourceTag is the minimal resource reference embedded in other responses.
type ResourceTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
