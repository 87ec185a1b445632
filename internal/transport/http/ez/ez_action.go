package ez

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/niranjcn/ConfessIt/internal/domain"
	resp "github.com/niranjcn/ConfessIt/internal/transport/http/response"
)

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // handler reads c.Param itself
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Action is one endpoint: I is the bound input, O the data of a success
// response. Status defaults to 200.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Status  int
	Handler func(c *gin.Context, in *I) (O, error)
}

// Register mounts a under e. Handler errors go through response.FromError so
// every failure leaves as {code, msg, kind} with the matching HTTP status.
func Register[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		binder := a.Binder
		if _, empty := any(&in).(*struct{}); empty {
			binder = BindNone
		}
		switch binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			Fail(c, bindError(bindErr))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func GET[I any, O any](e EZ, path string, h func(c *gin.Context, in *I) (O, error)) {
	Register(e, Action[I, O]{Method: http.MethodGet, Path: path, Binder: BindQuery, Handler: h})
}

func POST[I any, O any](e EZ, path string, status int, h func(c *gin.Context, in *I) (O, error)) {
	Register(e, Action[I, O]{Method: http.MethodPost, Path: path, Binder: BindJSON, Status: status, Handler: h})
}

func DELETE[I any, O any](e EZ, path string, h func(c *gin.Context, in *I) (O, error)) {
	Register(e, Action[I, O]{Method: http.MethodDelete, Path: path, Binder: BindNone, Handler: h})
}

// Fail aborts with the mapped error body. The raw error is attached to the
// gin context for the access log.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(resp.CodeRequestTooLarge, resp.Error(resp.CodeRequestTooLarge, resp.KindBodyTooLarge, "request body too large"))
		return
	}
	status, body := resp.FromError(err)
	c.AbortWithStatusJSON(status, body)
}

func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}
