package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes はbcryptが扱えるパスワードの最大バイト数。
const MaxPasswordBytes = 72

// ErrPasswordMismatch はパスワードがハッシュと一致しないことを表す。
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordHasher はbcryptによるパスワードハッシュ化を行う。
// ハッシュはコストとソルトを含む自己記述形式のため、照合時にコストを指定する必要はない。
type PasswordHasher struct {
	cost      int
	dummyHash []byte
}

// NewPasswordHasher は指定コストのPasswordHasherを生成する。
// コストがbcryptの範囲外の場合はエラーを返す。
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost out of range [%d, %d]: %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}

	// 未登録メールアドレスでのログイン時に照合時間を揃えるためのハッシュ
	dummy, err := bcrypt.GenerateFromPassword([]byte("digistore-timing-equaliser"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dummy hash: %w", err)
	}

	return &PasswordHasher{cost: cost, dummyHash: dummy}, nil
}

// Hash はパスワードをハッシュ化する。
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare はパスワードとハッシュを定数時間で照合する。
// 一致しない場合はErrPasswordMismatchを返す。
func (h *PasswordHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}

// CompareDummy は存在しないユーザーに対してダミーの照合を行う。
// 結果は常に破棄され、処理時間を実在ユーザーの照合と揃える。
func (h *PasswordHasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}
