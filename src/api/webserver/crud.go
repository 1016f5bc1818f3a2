package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/memberhub/src/api/data"
	"github.com/stake-plus/memberhub/src/api/schema"
	"github.com/stake-plus/memberhub/src/api/store"
)

type keyed interface {
	EntityID() string
}

type input[T any] interface {
	ToModel() *T
}

type sanitizable interface {
	Sanitize(clean func(string) string)
}

// reconciler is a patch that must be checked or completed against the
// stored row before it is applied.
type reconciler[T any] interface {
	Reconcile(current *T) error
}

// resource serves list/get/create/update/delete for one entity. In is the
// create body, P the partial-update body and F the list filter.
type resource[T keyed, In input[T], P any, F store.Filter] struct {
	srv  *Server
	repo *store.Repo[T]

	// beforeCreate may fill server-owned fields on the new row.
	beforeCreate func(c *gin.Context, v *T)
	afterCreate  func(v *T)
}

func newResource[T keyed, In input[T], P any, F store.Filter](s *Server, repo *store.Repo[T]) *resource[T, In, P, F] {
	return &resource[T, In, P, F]{srv: s, repo: repo}
}

func (r *resource[T, In, P, F]) mount(g *gin.RouterGroup, path string, withList bool) {
	if withList {
		g.GET(path, r.list)
	}
	g.GET(path+"/:id", r.get)
	g.POST(path, r.create)
	g.PUT(path+"/:id", r.update)
	g.DELETE(path+"/:id", r.delete)
}

func (r *resource[T, In, P, F]) list(c *gin.Context) {
	var f F
	if err := schema.BindQuery(c, &f); err != nil {
		r.srv.fail(c, err)
		return
	}
	var page store.Page
	if err := schema.BindQuery(c, &page); err != nil {
		r.srv.fail(c, err)
		return
	}
	res, err := r.repo.List(c.Request.Context(), f, page)
	if err != nil {
		r.srv.fail(c, err)
		return
	}
	r.srv.respond(c, http.StatusOK, res)
}

func (r *resource[T, In, P, F]) get(c *gin.Context) {
	v, err := r.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.srv.fail(c, err)
		return
	}
	r.srv.respond(c, http.StatusOK, v)
}

func (r *resource[T, In, P, F]) create(c *gin.Context) {
	var in In
	if err := schema.Bind(c, &in); err != nil {
		r.srv.fail(c, err)
		return
	}
	r.srv.sanitize(&in)

	v := in.ToModel()
	if r.beforeCreate != nil {
		r.beforeCreate(c, v)
	}
	if err := r.repo.Create(c.Request.Context(), v); err != nil {
		r.srv.fail(c, err)
		return
	}
	r.srv.publish(c, r.repo.Entity(), data.OpCreate, (*v).EntityID())
	if r.afterCreate != nil {
		r.afterCreate(v)
	}
	r.srv.respond(c, http.StatusCreated, v)
}

func (r *resource[T, In, P, F]) update(c *gin.Context) {
	var p P
	if err := schema.Bind(c, &p); err != nil {
		r.srv.fail(c, err)
		return
	}
	r.srv.sanitize(&p)

	id := c.Param("id")
	if rc, ok := any(&p).(reconciler[T]); ok {
		current, err := r.repo.Get(c.Request.Context(), id)
		if err != nil {
			r.srv.fail(c, err)
			return
		}
		if err := rc.Reconcile(current); err != nil {
			r.srv.fail(c, err)
			return
		}
	}
	v, err := r.repo.Update(c.Request.Context(), id, schema.Changes(&p))
	if err != nil {
		r.srv.fail(c, err)
		return
	}
	r.srv.publish(c, r.repo.Entity(), data.OpUpdate, id)
	r.srv.respond(c, http.StatusOK, v)
}

func (r *resource[T, In, P, F]) delete(c *gin.Context) {
	id := c.Param("id")
	if err := r.repo.Delete(c.Request.Context(), id); err != nil {
		r.srv.fail(c, err)
		return
	}
	r.srv.publish(c, r.repo.Entity(), data.OpDelete, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) sanitize(v any) {
	if sv, ok := v.(sanitizable); ok {
		sv.Sanitize(s.sanitizer.clean)
	}
}
