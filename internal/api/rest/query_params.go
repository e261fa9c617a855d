package rest

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DEFAULT_PAGE_SIZE = 50
	MAX_PAGE_SIZE     = 200
)

// ListEntriesQueryParams holds query parameters for listing a station's entries
type ListEntriesQueryParams struct {
	Page    int `form:"page,default=1"`
	PerPage int `form:"per_page,default=50"`
}

// ParseListEntriesQuery parses and normalizes pagination parameters
func ParseListEntriesQuery(c *gin.Context) (*ListEntriesQueryParams, error) {
	var params ListEntriesQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = DEFAULT_PAGE_SIZE
	}
	if params.PerPage > MAX_PAGE_SIZE {
		params.PerPage = MAX_PAGE_SIZE
	}

	return &params, nil
}

// parseStationID parses the :station_id path parameter
func parseStationID(c *gin.Context) (uint64, bool) {
	stationID, err := strconv.ParseUint(c.Param("station_id"), 10, 64)
	if err != nil || stationID == 0 {
		return 0, false
	}
	return stationID, true
}

// formatSeconds renders a seconds count for the Retry-After header
func formatSeconds(seconds int64) string {
	return strconv.FormatInt(seconds, 10)
}
