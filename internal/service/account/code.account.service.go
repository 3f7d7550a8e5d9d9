package account

import (
	"fmt"
	"lostfound/internal/common/enum"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/redis"
	"strings"
	"time"
)

const CodeLength = 6

// CodeStore issues one-time codes kept in redis under purpose and subject.
// A code is consumed by its first successful check.
type CodeStore struct {
	rds    redis.IRedis
	ttl    time.Duration
	prefix string
}

func NewCodeStore(rds redis.IRedis, ttl time.Duration) *CodeStore {
	return &CodeStore{rds: rds, ttl: ttl, prefix: "lostfound:code"}
}

func (s *CodeStore) key(purpose enum.CodePurposeEnum, subject string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, purpose, strings.ToLower(strings.TrimSpace(subject)))
}

// Issue stores a fresh numeric code, replacing any previous one.
func (s *CodeStore) Issue(purpose enum.CodePurposeEnum, subject string) (string, error) {
	code, err := helper.GenerateCode(CodeLength)
	if err != nil {
		return "", err
	}
	if err := s.Put(purpose, subject, code); err != nil {
		return "", err
	}
	return code, nil
}

func (s *CodeStore) Put(purpose enum.CodePurposeEnum, subject, value string) error {
	if err := s.rds.Set(s.key(purpose, subject), value, s.ttl); err != nil {
		return fmt.Errorf("store %s code: %w", purpose, err)
	}
	return nil
}

// Check consumes the code when it matches.
func (s *CodeStore) Check(purpose enum.CodePurposeEnum, subject, code string) (bool, error) {
	key := s.key(purpose, subject)
	var stored string
	found, err := s.rds.GetInto(key, &stored)
	if err != nil {
		return false, fmt.Errorf("load %s code: %w", purpose, err)
	}
	if !found || code == "" || stored != strings.TrimSpace(code) {
		return false, nil
	}
	if err := s.rds.Del(key); err != nil {
		return false, fmt.Errorf("consume %s code: %w", purpose, err)
	}
	return true, nil
}
