package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPaginationFromPage(t *testing.T) {
	cases := []struct {
		name          string
		total         int64
		page, perPage int
		wantPages     int
		wantNext      bool
		wantPrev      bool
	}{
		{"empty result set", 0, 1, 20, 1, false, false},
		{"single partial page", 5, 1, 20, 1, false, false},
		{"exact multiple", 40, 1, 20, 2, true, false},
		{"last page", 41, 3, 20, 3, false, true},
		{"middle page", 100, 3, 20, 5, true, true},
		{"zero per_page falls back", 50, 1, 0, 3, true, false},
		{"zero page falls back", 50, 0, 20, 3, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := BuildPaginationFromPage(tc.total, tc.page, tc.perPage)
			assert.Equal(t, tc.wantPages, p.TotalPages)
			assert.Equal(t, tc.wantNext, p.HasNext)
			assert.Equal(t, tc.wantPrev, p.HasPrev)
			assert.Equal(t, tc.total, p.Total)
		})
	}
}

func TestResolvePaging(t *testing.T) {
	app := fiber.New()

	var got Paging
	app.Get("/items", func(c *fiber.Ctx) error {
		got = ResolvePaging(c, 20, 100)
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		name  string
		query string
		want  Paging
	}{
		{"defaults", "", Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}},
		{"explicit page", "?page=3&per_page=10", Paging{Page: 3, PerPage: 10, Offset: 20, Limit: 10}},
		{"limit alias", "?limit=5", Paging{Page: 1, PerPage: 5, Offset: 0, Limit: 5}},
		{"capped at max", "?per_page=500", Paging{Page: 1, PerPage: 100, Offset: 0, Limit: 100}},
		{"garbage falls back", "?page=abc&per_page=-1", Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", "/items"+tc.query, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.want, got)
		})
	}
}
