package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/boken/internal/model"
	"github.com/Makepad-fr/boken/internal/store/jsonstore"
)

// Options configures the demo API.
type Options struct {
	Secret     string
	Paginate   bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	AccessLog  bool
	BcryptCost int // 0 = bcrypt.DefaultCost
}

type account struct {
	hash  []byte
	admin bool
}

// Server is a stand-in for the webtoon backend: JWT login/refresh and a
// protected, admin-only webtoon list.
type Server struct {
	opts     Options
	secret   []byte
	accounts map[string]account
	webtoons []model.Item
	now      func() time.Time
}

// New hashes the catalog passwords and prepares the handlers. An empty
// secret gets a random one, so tokens do not survive a restart.
func New(opt Options, cat jsonstore.Catalog) (*Server, error) {
	if opt.AccessTTL <= 0 {
		opt.AccessTTL = 5 * time.Minute
	}
	if opt.RefreshTTL <= 0 {
		opt.RefreshTTL = 24 * time.Hour
	}
	if opt.BcryptCost == 0 {
		opt.BcryptCost = bcrypt.DefaultCost
	}
	secret := opt.Secret
	if secret == "" {
		secret = uuid.NewString()
	}

	accounts := make(map[string]account, len(cat.Users))
	for _, u := range cat.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), opt.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", email, err)
		}
		accounts[email] = account{hash: hash, admin: u.Admin}
	}

	webtoons := cat.Webtoons
	if webtoons == nil {
		webtoons = []model.Item{}
	}

	return &Server{
		opts:     opt,
		secret:   []byte(secret),
		accounts: accounts,
		webtoons: webtoons,
		now:      time.Now,
	}, nil
}

// Handler builds the gin router.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.opts.AccessLog {
		r.Use(gin.Logger())
	}

	r.POST("/login/", s.handleLogin)
	r.POST("/refresh/", s.handleRefresh)

	api := r.Group("/api", s.requireAdmin)
	api.GET("/webtoons/", s.handleWebtoons)
	return r
}

// Serve runs the API on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("demo API listening on http://%s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error - " + err.Error()})
		return
	}
	if missing := requiredFields(map[string]string{"email": req.Email, "password": req.Password}); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, missing)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	acct, ok := s.accounts[email]
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "No active account found with the given credentials"})
		return
	}

	refresh, err := s.issue(email, tokenRefresh, s.opts.RefreshTTL)
	if err != nil {
		log.Printf("login %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not issue token"})
		return
	}
	access, err := s.issue(email, tokenAccess, s.opts.AccessTTL)
	if err != nil {
		log.Printf("login %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"refresh": refresh, "access": access})
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error - " + err.Error()})
		return
	}
	if missing := requiredFields(map[string]string{"refresh": req.Refresh}); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, missing)
		return
	}

	email, err := s.verify(req.Refresh, tokenRefresh)
	if _, known := s.accounts[email]; err != nil || !known {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	access, err := s.issue(email, tokenAccess, s.opts.AccessTTL)
	if err != nil {
		log.Printf("refresh %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// requireAdmin authenticates the bearer token; listing needs an admin account.
func (s *Server) requireAdmin(c *gin.Context) {
	header := c.GetHeader("Authorization")
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}

	email, err := s.verify(strings.TrimSpace(raw), tokenAccess)
	acct, known := s.accounts[email]
	if err != nil || !known {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"detail": "Given token not valid for any token type",
			"code":   "token_not_valid",
		})
		return
	}
	if !acct.admin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
		return
	}
	c.Next()
}

func (s *Server) handleWebtoons(c *gin.Context) {
	if !s.opts.Paginate {
		c.JSON(http.StatusOK, s.webtoons)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(s.webtoons),
		"next":     nil,
		"previous": nil,
		"results":  s.webtoons,
	})
}

// requiredFields returns DRF-style field errors for empty values.
func requiredFields(fields map[string]string) gin.H {
	missing := gin.H{}
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing[name] = []string{"This field is required."}
		}
	}
	return missing
}
