package catalog

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

const placeholderPoster = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iMzAwIiBoZWlnaHQ9IjQ1MCIgeG1sbnM9Imh0dHA6Ly93d3cudzMub3JnLzIwMDAvc3ZnIj48cmVjdCB3aWR0aD0iMTAwJSIgaGVpZ2h0PSIxMDAlIiBmaWxsPSIjMzMzIi8+PHRleHQgeD0iNTAlIiB5PSI1MCUiIGZvbnQtZmFtaWx5PSJzYW5zLXNlcmlmIiBmb250LXNpemU9IjE0IiBmaWxsPSIjZmZmIiB0ZXh0LWFuY2hvcj0ibWlkZGxlIiBkeT0iLjNlbSI+UG9zdGVyPC90ZXh0Pjwvc3ZnPg=="

// Fallback is the placeholder page served when the API is unreachable.
func Fallback(action string, page int) *Response {
	if page < 1 {
		page = 1
	}
	resp := &Response{Success: true, Page: page, HasMore: false, Fallback: true}
	resp.Items = make([]Item, 0, FallbackSize)
	for i := 1; i <= FallbackSize; i++ {
		it := Item{
			Poster: placeholderPoster,
			Year:   "2023",
			Type:   "movie",
			Genre:  "Drama",
			Rating: 7.0,
		}
		switch action {
		case Trending:
			it.ID = fmt.Sprintf("fallback-trending-%d", i)
			it.Title = fmt.Sprintf("Film Trending %d", i)
			it.DetailPath = fmt.Sprintf("/fallback/detail/%d", i)
			it.Rating = 7.5
			if i%2 == 0 {
				it.Type, it.Genre = "tv", "Drama, Romance"
			} else {
				it.Genre = "Action, Adventure"
			}
		case IndonesianMovies:
			it.ID = fmt.Sprintf("fallback-indo-movie-%d", i)
			it.Title = fmt.Sprintf("Film Indonesia %d", i)
			it.DetailPath = fmt.Sprintf("/fallback/indonesian-movie/%d", i)
			it.Year, it.Genre = "2022", "Drama, Family"
			it.Rating = 7.0 + float64(i-1)*0.5
		case KDrama:
			it.ID = fmt.Sprintf("fallback-kdrama-%d", i)
			it.Title = fmt.Sprintf("K-Drama %d", i)
			it.DetailPath = fmt.Sprintf("/fallback/kdrama/%d", i)
			it.Type, it.Genre = "tv", "Drama, Romance"
			it.Rating = 8.0 + float64(i-1)*0.3
		default:
			it.ID = fmt.Sprintf("fallback-%s-%d", action, i)
			it.Title = fmt.Sprintf("%s %d", capitalize(action), i)
			it.DetailPath = fmt.Sprintf("/fallback/%s/%d", action, i)
		}
		resp.Items = append(resp.Items, it)
	}
	return resp
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
