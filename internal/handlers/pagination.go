package handlers

import (
	"net/http"
	"strconv"

	"github.com/akarpov/portfolio-api/internal/repository"
)

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// listResponse is the envelope every list endpoint answers with
type listResponse struct {
	Data       any        `json:"data"`
	Pagination pagination `json:"pagination"`
}

func newListResponse(data any, p repository.ListParams, total int64) listResponse {
	p = p.Normalized()

	pages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		pages++
	}

	return listResponse{
		Data: data,
		Pagination: pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: total,
			Pages: pages,
		},
	}
}

// listParamsFromQuery reads page and limit. Garbage values fall back to
// the defaults instead of erroring, same as the normalization does.
func listParamsFromQuery(r *http.Request) repository.ListParams {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	return repository.ListParams{Page: page, Limit: limit}.Normalized()
}
