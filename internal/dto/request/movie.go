package request

import (
	"strings"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/utils"
)

const (
	directorRule = "max=100"
	msgNotNull   = "This field may not be null."
)

// MovieRequest is the body of POST and PUT. Nullable fields that are left
// out keep their stored value on PUT.
type MovieRequest struct {
	Title       string                `json:"title" validate:"required,notblank,max=100"`
	Description Optional[string]      `json:"description"`
	ReleaseDate string                `json:"release_date" validate:"required,datetime=2006-01-02"`
	Genre       string                `json:"genre" validate:"required,notblank,max=50"`
	Rating      *Number               `json:"rating" validate:"required,gte=0,lte=5"`
	Cast        Optional[entity.Cast] `json:"cast"`
	Director    Optional[string]      `json:"director"`
}

func (r *MovieRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Genre = strings.TrimSpace(r.Genre)
	trimOptional(&r.Director)
}

func (r *MovieRequest) Validate() map[string]string {
	r.Normalize()
	errs := utils.ValidateStruct(r)
	return validateDirector(errs, r.Director)
}

// MovieUpdateRequest is the body of PATCH; only supplied keys change. The
// required columns may be left out but not set to null.
type MovieUpdateRequest struct {
	Title       Optional[string]      `json:"title"`
	Description Optional[string]      `json:"description"`
	ReleaseDate Optional[string]      `json:"release_date"`
	Genre       Optional[string]      `json:"genre"`
	Rating      Optional[Number]      `json:"rating"`
	Cast        Optional[entity.Cast] `json:"cast"`
	Director    Optional[string]      `json:"director"`
}

func (r *MovieUpdateRequest) Normalize() {
	trimOptional(&r.Title)
	trimOptional(&r.Genre)
	trimOptional(&r.Director)
}

func (r *MovieUpdateRequest) Validate() map[string]string {
	r.Normalize()
	errs := make(map[string]string)

	checkSupplied(errs, "title", r.Title, "notblank,max=100")
	checkSupplied(errs, "release_date", r.ReleaseDate, "datetime=2006-01-02")
	checkSupplied(errs, "genre", r.Genre, "notblank,max=50")
	checkSupplied(errs, "rating", r.Rating, "gte=0,lte=5")
	errs = validateDirector(errs, r.Director)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// checkSupplied validates a non-nullable field only when the key was sent.
func checkSupplied[T any](errs map[string]string, field string, value Optional[T], rule string) {
	if !value.Set {
		return
	}
	if value.Value == nil {
		errs[field] = msgNotNull
		return
	}
	if msg := utils.ValidateVar(*value.Value, rule); msg != "" {
		errs[field] = msg
	}
}

func validateDirector(errs map[string]string, director Optional[string]) map[string]string {
	if director.Value == nil {
		return errs
	}
	if msg := utils.ValidateVar(*director.Value, directorRule); msg != "" {
		if errs == nil {
			errs = make(map[string]string)
		}
		errs["director"] = msg
	}
	return errs
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func trimOptional(o *Optional[string]) {
	trimPtr(o.Value)
}
