package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/banachtech/zebra-engine/analytic"
	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/pricer"
	"github.com/banachtech/zebra-engine/risk"
	"github.com/banachtech/zebra-engine/sweep"
)

// status maps an engine error to an HTTP status.
func status(err error) int {
	switch {
	case errors.Is(err, option.ErrInvalidParams),
		errors.Is(err, pricer.ErrUnknownModel),
		errors.Is(err, pricer.ErrMissingExtension),
		errors.Is(err, pricer.ErrInvalidPrice),
		errors.Is(err, risk.ErrInvalidPosition),
		errors.Is(err, risk.ErrNoScenarios),
		errors.Is(err, sweep.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (server *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if server.cfg.Timeout > 0 {
		return context.WithTimeout(c.Request.Context(), server.cfg.Timeout)
	}
	return context.WithCancel(c.Request.Context())
}

func (server *Server) price(c *gin.Context) {
	var req pricer.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	ctx, cancel := server.requestContext(c)
	defer cancel()

	out, err := server.engine.Price(ctx, req)
	server.metrics.priced(string(req.Model), err)
	if err != nil {
		c.AbortWithStatusJSON(status(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, out)
}

type ivRequest struct {
	Price   float64            `json:"price" binding:"required,gt=0"`
	Params  option.Params      `json:"params" binding:"required"`
	Options analytic.IVOptions `json:"options"`
}

type ivResponse struct {
	analytic.IVResult
	Error string `json:"error,omitempty"`
}

// impliedVol answers 422 with the last iterate when the solver does not
// converge.
func (server *Server) impliedVol(c *gin.Context) {
	var req ivRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	res, err := server.engine.ImpliedVol(c.Request.Context(), req.Price, req.Params, req.Options)
	if err != nil {
		c.AbortWithStatusJSON(status(err), errorResponse(err))
		return
	}
	server.metrics.solved(res.Converged)
	if err := res.Err(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ivResponse{IVResult: res, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ivResponse{IVResult: res})
}

type sweepRequest struct {
	Base   pricer.Request `json:"base" binding:"required"`
	Spots  []float64      `json:"spots"`
	Days   []float64      `json:"days"`
	Fields []sweep.Field  `json:"fields"`
}

type sweepResponse struct {
	sweep.Surface
	Matrices map[sweep.Field][][]float64 `json:"matrices,omitempty"`
}

func (server *Server) sweep(c *gin.Context) {
	var req sweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	spots, days := len(req.Spots), len(req.Days)
	if spots == 0 {
		spots = len(sweep.DefaultSpots(req.Base.Params.Strike))
	}
	if days == 0 {
		days = len(sweep.DefaultDays)
	}
	if limit := server.cfg.MaxGridCells; limit > 0 && spots*days > limit {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(fmt.Errorf("grid of %d cells exceeds the limit of %d", spots*days, limit)))
		return
	}
	if err := req.Base.Validate(); err != nil {
		c.AbortWithStatusJSON(status(err), errorResponse(err))
		return
	}
	ctx, cancel := server.requestContext(c)
	defer cancel()

	surface, err := sweep.Run(ctx, server.engine, sweep.Grid{Base: req.Base, Spots: req.Spots, Days: req.Days})
	if err != nil {
		c.AbortWithStatusJSON(status(err), errorResponse(err))
		return
	}
	resp := sweepResponse{Surface: surface}
	if len(req.Fields) > 0 {
		resp.Matrices = make(map[sweep.Field][][]float64, len(req.Fields))
		for _, f := range req.Fields {
			m, err := surface.Matrix(f)
			if err != nil {
				c.AbortWithStatusJSON(status(err), errorResponse(err))
				return
			}
			resp.Matrices[f] = m
		}
	}
	c.JSON(http.StatusOK, resp)
}

type bookRequest struct {
	Positions []risk.Position `json:"positions" binding:"required,min=1"`
	Scenarios []risk.Scenario `json:"scenarios"`
}

func (server *Server) scenario(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	rep, err := risk.Stress(req.Positions, req.Scenarios)
	if err != nil {
		c.AbortWithStatusJSON(status(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (server *Server) portfolio(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	sum, err := risk.Assess(req.Positions)
	if err != nil {
		c.AbortWithStatusJSON(status(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, sum)
}
