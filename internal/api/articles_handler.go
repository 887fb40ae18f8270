package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	gormmodels "freightops/harbormaster/internal/models/gorm"
	"freightops/harbormaster/internal/models/dtos/responses"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ListArticlesHandler handles GET /api/v1/articles
func ListArticlesHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if offset < 0 {
			offset = 0
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit < 1 {
			limit = defaultListLimit
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}

		articles, err := deps.Repo.Articles.List(r.Context(), offset, limit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list articles")
			return
		}
		total, err := deps.Repo.Articles.Count(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to count articles")
			return
		}

		resp := responses.ArticleListResponse{
			Items:  make([]responses.ArticleSummary, 0, len(articles)),
			Total:  total,
			Offset: offset,
			Limit:  limit,
		}
		for i := range articles {
			resp.Items = append(resp.Items, summarize(&articles[i]))
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetArticleHandler handles GET /api/v1/articles/{external_id}. Parents
// include their linked children.
func GetArticleHandler(deps *Dependencies) http.HandlerFunc {
	type articleDetail struct {
		responses.ArticleSummary
		Description string                  `json:"description,omitempty"`
		POLTerminal string                  `json:"pol_terminal,omitempty"`
		Notes       string                  `json:"notes,omitempty"`
		Children    []responses.LinkedChild `json:"children,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		externalID := chi.URLParam(r, "external_id")

		article, err := deps.Repo.Articles.FindByExternalID(r.Context(), externalID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to load article")
			return
		}
		if article == nil {
			respondWithError(w, http.StatusNotFound, "Article not found")
			return
		}

		detail := articleDetail{
			ArticleSummary: summarize(article),
			Description:    article.Description,
			POLTerminal:    article.POLTerminal,
			Notes:          article.Notes,
		}

		if article.IsParent {
			links, err := deps.Repo.Links.ChildrenOf(r.Context(), article.ID)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "Failed to load children")
				return
			}
			for _, link := range links {
				child := responses.LinkedChild{
					ArticleID: link.ChildID,
					SortOrder: link.SortOrder,
					Required:  link.Required,
					CostType:  link.CostType,
				}
				if row, err := deps.Repo.Articles.FindByID(r.Context(), link.ChildID); err == nil && row != nil {
					child.ExternalID = row.ExternalID
					child.Name = row.Name
				}
				detail.Children = append(detail.Children, child)
			}
		}

		respondWithSuccess(w, http.StatusOK, &detail)
	}
}

// ListReviewArticlesHandler handles GET /api/v1/articles/review
func ListReviewArticlesHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articles, err := deps.Repo.Articles.ListNeedingReview(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list review queue")
			return
		}
		resp := responses.ArticleListResponse{
			Items: make([]responses.ArticleSummary, 0, len(articles)),
			Total: int64(len(articles)),
			Limit: len(articles),
		}
		for i := range articles {
			resp.Items = append(resp.Items, summarize(&articles[i]))
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

func summarize(a *gormmodels.Article) responses.ArticleSummary {
	return responses.ArticleSummary{
		ID:            a.ID,
		ExternalID:    a.ExternalID,
		Code:          a.Code,
		Name:          a.Name,
		Category:      a.Category,
		TransportMode: a.TransportMode,
		POLCode:       a.POLCode,
		PODCode:       a.PODCode,
		Carriers:      a.CarrierNames(),
		ServiceTags:   a.ServiceTags(),
		Price:         a.PriceAmount.String(),
		Currency:      a.PriceCurrency,
		IsParent:      a.IsParent,
		IsSurcharge:   a.IsSurcharge,
		NeedsReview:   a.NeedsReview,
	}
}
