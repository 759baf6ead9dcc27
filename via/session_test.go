package via

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alexedwards/scs/v2"
	"github.com/ryanhamamura/viatour/via/h"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteSessionManager(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(sqliteSessionSchema)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(sqliteSessionIndex)).WillReturnResult(sqlmock.NewResult(0, 0))

	sm, err := NewSQLiteSessionManager(db)
	require.NoError(t, err)
	require.NotNil(t, sm)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSQLiteSessionManager_SchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(sqliteSessionSchema)).WillReturnError(errors.New("disk I/O error"))

	sm, err := NewSQLiteSessionManager(db)
	assert.Nil(t, sm)
	assert.ErrorContains(t, err, "create table")
	assert.ErrorContains(t, err, "disk I/O error")
}

func TestNewSQLiteSessionManager_NilDB(t *testing.T) {
	_, err := NewSQLiteSessionManager(nil)
	assert.Error(t, err)
}

func TestSession_NoManagerIsNoop(t *testing.T) {
	v := New()
	c := newContext("no-session", "/", v)
	c.setRequest(context.Background())
	s := c.Session()

	s.Set("last_demo", "control_flow")
	assert.Empty(t, s.GetString("last_demo"))
}

func TestSession_NoRequestIsNoop(t *testing.T) {
	v := New()
	v.Config(Options{SessionManager: scs.New()})
	// page registration runs init before any request is attached
	c := newContext("", "/", v)

	assert.NotPanics(t, func() {
		c.Session().Set("last_demo", "control_flow")
		assert.Empty(t, c.Session().GetString("last_demo"))
	})
}

func TestSession_PersistsAcrossPageLoads(t *testing.T) {
	sm := scs.New()
	v := New()
	v.Config(Options{SessionManager: sm})

	v.Page("/demos/{demo}", func(c *Context) {
		s := c.Session()
		last := s.GetString("last_demo")
		s.Set("last_demo", c.GetPathParam("demo"))
		c.View(func() h.H { return h.P(h.Textf("last demo: %s", last)) })
	})

	first := get(t, v, "/demos/control_flow")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), "last demo: </p>")
	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies)

	req, err := http.NewRequest("GET", "/demos/demo_async", nil)
	require.NoError(t, err)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	v.Handler().ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "last demo: control_flow")
}

func TestSession_RequestSwapsDuringActions(t *testing.T) {
	sm := scs.New()
	v := New()
	v.Config(Options{SessionManager: sm})

	var remember *ActionTrigger
	v.Page("/", func(c *Context) {
		remember = c.Action(func() { c.Session().Set("last_demo", "demo_async") })
		c.View(func() h.H { return h.Div() })
	})
	require.Equal(t, http.StatusOK, get(t, v, "/").Code)
	c := onlyCtx(t, v)

	// the SSE stream and actions replace the request while others read it
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			callAction(t, v, c, remember.ID(), nil)
		}()
		go func() {
			defer wg.Done()
			ctx, err := sm.Load(context.Background(), "")
			assert.NoError(t, err)
			c.setRequest(ctx)
			_ = c.Session().GetString("last_demo")
		}()
	}
	wg.Wait()
	assert.NotNil(t, c.request())
}
