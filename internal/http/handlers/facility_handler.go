// README: Facility handlers for nearby search and ad-hoc ranking.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carefinder/internal/modules/facility"
	"carefinder/internal/types"
)

type FacilityHandler struct {
	facility *facility.Service
}

func NewFacilityHandler(svc *facility.Service) *FacilityHandler {
	return &FacilityHandler{facility: svc}
}

// Nearby serves GET /api/facilities/nearby.
func (h *FacilityHandler) Nearby(c *gin.Context) {
	q, err := parseNearbyQuery(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.facility.Nearby(c.Request.Context(), q)
	if err != nil {
		writeFacilityError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

func parseNearbyQuery(c *gin.Context) (facility.NearbyQuery, error) {
	var q facility.NearbyQuery

	lat, hasLat := c.GetQuery("lat")
	lng, hasLng := c.GetQuery("lng")
	switch {
	case hasLat && hasLng:
		p, err := types.ParsePoint(lat + "," + lng)
		if err != nil {
			return q, err
		}
		q.Origin = &p
	case hasLat || hasLng:
		return q, errors.New("lat and lng must be given together")
	}

	if v := c.Query("radius_km"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return q, fmt.Errorf("invalid radius_km %q", v)
		}
		q.RadiusKm = r
	}
	if v := c.Query("emergency_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return q, fmt.Errorf("invalid emergency_only %q", v)
		}
		q.EmergencyOnly = b
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("invalid limit %q", v)
		}
		q.Limit = n
	}
	return q, nil
}

type rankReq struct {
	Origin     *types.Point        `json:"origin"`
	Facilities []facility.Facility `json:"facilities"`
}

type rankResp struct {
	Origin     types.Point       `json:"origin"`
	Facilities []facility.Ranked `json:"facilities"`
}

// Rank serves POST /api/facilities/rank.
func (h *FacilityHandler) Rank(c *gin.Context) {
	var req rankReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Origin == nil {
		writeError(c, http.StatusBadRequest, "missing origin")
		return
	}
	if err := req.Origin.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "origin: "+err.Error())
		return
	}
	for i, f := range req.Facilities {
		if err := f.Location.Validate(); err != nil {
			writeError(c, http.StatusBadRequest, fmt.Sprintf("facilities[%d]: %v", i, err))
			return
		}
	}
	writeJSON(c, http.StatusOK, rankResp{
		Origin:     *req.Origin,
		Facilities: facility.Rank(*req.Origin, req.Facilities),
	})
}
