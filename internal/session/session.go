package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/Skotchmaster/parfum_shop/internal/client"
	"github.com/Skotchmaster/parfum_shop/internal/models"
	"github.com/Skotchmaster/parfum_shop/internal/transport"
)

const (
	msgLoginFailed = "Ошибка входа"
	msgServerError = "Ошибка сервера"
)

var (
	ErrBusy              = errors.New("another operation is in progress")
	ErrForbidden         = errors.New("role does not allow this action")
	ErrInvalidTransition = errors.New("action not available in the current view")
	ErrUnknownProduct    = errors.New("product is not in the current list")
)

type View int

const (
	ViewAuth View = iota
	ViewList
	ViewAdd
	ViewEdit
)

func (v View) String() string {
	switch v {
	case ViewAuth:
		return "auth"
	case ViewList:
		return "list"
	case ViewAdd:
		return "add"
	case ViewEdit:
		return "edit"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

type API interface {
	Login(ctx context.Context, username, password string) (*transport.LoginResponse, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, req transport.ProductRequest) (int, error)
	UpdateProduct(ctx context.Context, id int, req transport.ProductRequest) error
	DeleteProduct(ctx context.Context, id int) error
	SetToken(token string)
}

type User struct {
	Username string
	Role     models.Role
}

// State is a copy of everything the views render.
type State struct {
	View       View
	User       *User
	Username   string
	Password   string
	LoginError string
	Products   []models.Product
	Selected   *models.Product
	Form       Form
	Busy       bool
}

type Session struct {
	api API
	log *zap.Logger

	mu   sync.Mutex
	busy bool
	st   State
}

func New(api API, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{api: api, log: log}
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.st
	st.Busy = s.busy
	st.Products = slices.Clone(s.st.Products)
	if s.st.User != nil {
		u := *s.st.User
		st.User = &u
	}
	if s.st.Selected != nil {
		p := *s.st.Selected
		st.Selected = &p
	}
	return st
}

// begin claims the single operation slot if the session is in one of views.
func (s *Session) begin(views ...View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if !slices.Contains(views, s.st.View) {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, s.st.View)
	}
	s.busy = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) role() models.Role {
	if s.st.User == nil {
		return ""
	}
	return s.st.User.Role
}

// SetCredentials updates the login form inputs.
func (s *Session) SetCredentials(username, password string) error {
	if err := s.begin(ViewAuth); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	s.st.Username = username
	s.st.Password = password
	s.mu.Unlock()
	return nil
}

// Login submits the stored credentials. On success the list view opens and the catalog is fetched.
func (s *Session) Login(ctx context.Context) error {
	if err := s.begin(ViewAuth); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	username, password := s.st.Username, s.st.Password
	s.mu.Unlock()

	return s.login(ctx, username, password)
}

// EnterAsGuest logs in with empty credentials, which the server answers with the guest role.
func (s *Session) EnterAsGuest(ctx context.Context) error {
	if err := s.begin(ViewAuth); err != nil {
		return err
	}
	defer s.end()

	return s.login(ctx, "", "")
}

func (s *Session) login(ctx context.Context, username, password string) error {
	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		msg := msgServerError
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.Message
			if msg == "" {
				msg = msgLoginFailed
			}
		}
		s.log.Warn("login failed", zap.String("username", username), zap.Error(err))

		s.mu.Lock()
		s.st.LoginError = msg
		s.mu.Unlock()
		return err
	}

	s.api.SetToken(res.Token)
	s.log.Info("logged in", zap.String("username", res.Username), zap.String("role", string(res.Role)))

	s.mu.Lock()
	s.st.User = &User{Username: res.Username, Role: res.Role}
	s.st.LoginError = ""
	s.st.View = ViewList
	s.mu.Unlock()

	s.fetch(ctx)
	return nil
}

// Logout returns to the login view and forgets the user and the typed credentials.
func (s *Session) Logout() error {
	if err := s.begin(ViewList); err != nil {
		return err
	}
	defer s.end()

	s.api.SetToken("")
	s.mu.Lock()
	s.st.User = nil
	s.st.Username = ""
	s.st.Password = ""
	s.st.View = ViewAuth
	s.mu.Unlock()
	return nil
}

func (s *Session) StartAdd() error {
	if err := s.begin(ViewList); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.role().CanAdd() {
		return ErrForbidden
	}
	s.st.Selected = nil
	s.st.Form = BlankForm()
	s.st.View = ViewAdd
	return nil
}

func (s *Session) StartEdit(id int) error {
	if err := s.begin(ViewList); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.role().CanEdit() {
		return ErrForbidden
	}
	i := slices.IndexFunc(s.st.Products, func(p models.Product) bool { return p.ID == id })
	if i < 0 {
		return ErrUnknownProduct
	}
	p := s.st.Products[i]
	s.st.Selected = &p
	s.st.Form = FormFrom(p)
	s.st.View = ViewEdit
	return nil
}

func (s *Session) SetForm(f Form) error {
	if err := s.begin(ViewAdd, ViewEdit); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	s.st.Form = f
	s.mu.Unlock()
	return nil
}

// Back discards the draft and returns to the list.
func (s *Session) Back() error {
	if err := s.begin(ViewAdd, ViewEdit); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	s.st.Selected = nil
	s.st.Form = Form{}
	s.st.View = ViewList
	s.mu.Unlock()
	return nil
}

// Save creates or updates the product behind the form. A failed save keeps the form open.
func (s *Session) Save(ctx context.Context) error {
	if err := s.begin(ViewAdd, ViewEdit); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	view, req := s.st.View, s.st.Form.Request()
	var id int
	if s.st.Selected != nil {
		id = s.st.Selected.ID
	}
	s.mu.Unlock()

	var err error
	if view == ViewAdd {
		id, err = s.api.CreateProduct(ctx, req)
	} else {
		err = s.api.UpdateProduct(ctx, id, req)
	}
	if err != nil {
		s.log.Error("save product failed", zap.String("view", view.String()), zap.Int("id", id), zap.Error(err))
		return err
	}
	s.log.Info("product saved", zap.String("view", view.String()), zap.Int("id", id))

	s.mu.Lock()
	s.st.Selected = nil
	s.st.Form = Form{}
	s.st.View = ViewList
	s.mu.Unlock()

	s.fetch(ctx)
	return nil
}

// Delete removes product id after confirm approves it. It reports whether a request was sent.
func (s *Session) Delete(ctx context.Context, id int, confirm func(models.Product) bool) (bool, error) {
	if err := s.begin(ViewList); err != nil {
		return false, err
	}
	defer s.end()

	s.mu.Lock()
	allowed := s.role().CanDelete()
	i := slices.IndexFunc(s.st.Products, func(p models.Product) bool { return p.ID == id })
	var p models.Product
	if i >= 0 {
		p = s.st.Products[i]
	}
	s.mu.Unlock()

	if !allowed {
		return false, ErrForbidden
	}
	if i < 0 {
		return false, ErrUnknownProduct
	}
	if confirm == nil || !confirm(p) {
		return false, nil
	}

	if err := s.api.DeleteProduct(ctx, id); err != nil {
		s.log.Error("delete product failed", zap.Int("id", id), zap.Error(err))
		return true, err
	}
	s.log.Info("product deleted", zap.Int("id", id))

	s.fetch(ctx)
	return true, nil
}

// Refresh re-reads the catalog. On failure the previous list is kept.
func (s *Session) Refresh(ctx context.Context) error {
	if err := s.begin(ViewList); err != nil {
		return err
	}
	defer s.end()
	return s.fetch(ctx)
}

func (s *Session) fetch(ctx context.Context) error {
	items, err := s.api.ListProducts(ctx)
	if err != nil {
		s.log.Error("fetch products failed", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.st.Products = items
	s.mu.Unlock()
	return nil
}
