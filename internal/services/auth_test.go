package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/quizforge-backend/internal/pkg/errors"
	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/requestdata"
	"github.com/yungbote/quizforge-backend/internal/types"
)

func newAuthForTest(t *testing.T) (AuthService, *gorm.DB, *logger.Logger) {
	t.Helper()
	gdb := newTestDB(t)
	log := mustTestLogger(t)
	svc := NewAuthService(gdb, log,
		repos.NewUserRepo(gdb, log),
		repos.NewUserTokenRepo(gdb, log),
		"test-secret",
		time.Hour,
		24*time.Hour,
	)
	return svc, gdb, log
}

func TestRegisterUser_NormalizesAndHashes(t *testing.T) {
	svc, gdb, _ := newAuthForTest(t)

	user := &types.User{
		FirstName: " Ada ",
		LastName:  " Lovelace ",
		Email:     "  Ada@Example.COM ",
		Password:  "supersecret",
	}
	if err := svc.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	var stored types.User
	if err := gdb.Where("email = ?", "ada@example.com").First(&stored).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.FirstName != "Ada" || stored.LastName != "Lovelace" {
		t.Fatalf("names not trimmed: %q %q", stored.FirstName, stored.LastName)
	}
	if stored.Password == "supersecret" {
		t.Fatalf("password stored in plaintext")
	}
	if stored.Role != types.RoleStudent {
		t.Fatalf("expected default student role, got %q", stored.Role)
	}
}

func TestRegisterUser_RejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthForTest(t)

	first := &types.User{Email: "dup@example.com", Password: "supersecret"}
	if err := svc.RegisterUser(context.Background(), first); err != nil {
		t.Fatalf("first RegisterUser: %v", err)
	}
	second := &types.User{Email: "DUP@example.com", Password: "supersecret"}
	err := svc.RegisterUser(context.Background(), second)
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for duplicate email, got %v", err)
	}
}

func TestRegisterUser_RejectsShortPassword(t *testing.T) {
	svc, _, _ := newAuthForTest(t)
	err := svc.RegisterUser(context.Background(), &types.User{Email: "a@b.com", Password: "short"})
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for short password, got %v", err)
	}
}

func TestLoginUser_IssuesTokensAndRejectsBadCredentials(t *testing.T) {
	svc, gdb, _ := newAuthForTest(t)

	user := &types.User{Email: "login@example.com", Password: "supersecret"}
	if err := svc.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	if _, _, err := svc.LoginUser(context.Background(), "login@example.com", "wrongpass"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}
	if _, _, err := svc.LoginUser(context.Background(), "nobody@example.com", "supersecret"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}

	access, refresh, err := svc.LoginUser(context.Background(), "Login@Example.com", "supersecret")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens, got access=%q refresh=%q", access, refresh)
	}

	var tokenCount int64
	if err := gdb.Model(&types.UserToken{}).Count(&tokenCount).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if tokenCount != 1 {
		t.Fatalf("expected 1 stored token row, got %d", tokenCount)
	}
}

func TestSetContextFromToken_PopulatesRequestData(t *testing.T) {
	svc, _, _ := newAuthForTest(t)

	user := &types.User{Email: "ctx@example.com", Password: "supersecret", Role: types.RoleInstructor}
	if err := svc.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	access, refresh, err := svc.LoginUser(context.Background(), "ctx@example.com", "supersecret")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	ctx, err := svc.SetContextFromToken(context.Background(), access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		t.Fatalf("request data missing from context")
	}
	if rd.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, rd.UserID)
	}
	if rd.Role != types.RoleInstructor {
		t.Fatalf("expected instructor role claim, got %q", rd.Role)
	}
	if rd.RefreshToken != refresh {
		t.Fatalf("expected refresh token resolved from store")
	}
}

func TestSetContextFromToken_RejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthForTest(t)
	if _, err := svc.SetContextFromToken(context.Background(), "not-a-jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

// Tokens signed with any HMAC variant verify against the same secret, so
// the parser must pin HS256 rather than relying on key-type mismatch.
func TestSetContextFromToken_RejectsForeignSigningMethod(t *testing.T) {
	svc, _, _ := newAuthForTest(t)

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.SetContextFromToken(context.Background(), forged); err == nil {
		t.Fatalf("expected rejection of non-HS256 token")
	}
}

func TestRefreshUser_RotatesTokens(t *testing.T) {
	svc, gdb, _ := newAuthForTest(t)

	user := &types.User{Email: "rot@example.com", Password: "supersecret"}
	if err := svc.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	access, refresh, err := svc.LoginUser(context.Background(), "rot@example.com", "supersecret")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		TokenString:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
	})
	newAccess, newRefresh, err := svc.RefreshUser(ctx)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if newRefresh == refresh {
		t.Fatalf("refresh token was not rotated")
	}
	if newAccess == "" {
		t.Fatalf("missing new access token")
	}

	var tokenCount int64
	if err := gdb.Model(&types.UserToken{}).Count(&tokenCount).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if tokenCount != 1 {
		t.Fatalf("expected old token row removed, got %d rows", tokenCount)
	}

	// The old refresh token must be dead.
	if _, _, err := svc.RefreshUser(ctx); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for consumed refresh token, got %v", err)
	}
}
