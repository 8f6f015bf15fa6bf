package response

import (
	"movie-catalog/internal/data/entity"
)

type MovieResponse struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	ReleaseDate string      `json:"release_date"`
	Genre       string      `json:"genre"`
	Rating      float64     `json:"rating"`
	Cast        entity.Cast `json:"cast"`
	Director    *string     `json:"director"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:          movie.ID.String(),
		Title:       movie.Title,
		Description: movie.Description,
		ReleaseDate: movie.ReleaseDate.Format("2006-01-02"),
		Genre:       movie.Genre,
		Rating:      movie.Rating,
		Cast:        movie.Cast,
		Director:    movie.Director,
	}
}

func MoviesToResponse(movies []*entity.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, MovieToResponse(m))
	}
	return out
}
