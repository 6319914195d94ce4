// Package session はRedisをバックエンドとするサーバーサイドセッションストアを提供します。
// クッキーにはsecurecookieで封印した不透明なセッションIDのみを置き、
// セッション値本体はTTL付きのJSONレコードとしてRedisに保存します。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	gsessions "github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RotateIDKey をセッション値に設定すると、次のSaveでセッションIDを
// 付け替えます（旧レコードは削除）。マーカー自体は保存されません。
const RotateIDKey = "_rotate_session_id"

// ErrSessionNotFound はセッションIDに対応するレコードが存在しないことを表します。
var ErrSessionNotFound = errors.New("session not found")

// RedisStore は gin-contrib/sessions のストア契約を満たすRedis実装です。
type RedisStore struct {
	rdb    *redis.Client
	codecs []securecookie.Codec
	opts   *gsessions.Options
	ttl    time.Duration
}

// NewRedisStore は RedisStore を作成します。
// keyPairs はセッションIDクッキーの署名鍵です。
func NewRedisStore(rdb *redis.Client, ttl time.Duration, keyPairs ...[]byte) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		codecs: securecookie.CodecsFromPairs(keyPairs...),
		opts: &gsessions.Options{
			Path:   "/",
			MaxAge: int(ttl.Seconds()),
		},
		ttl: ttl,
	}
}

// Options はクッキーの属性を設定します。
func (s *RedisStore) Options(options ginsessions.Options) {
	s.opts = options.ToGorillaOptions()
}

// Get はリクエスト単位のレジストリ経由でセッションを取得します。
func (s *RedisStore) Get(r *http.Request, name string) (*gsessions.Session, error) {
	return gsessions.GetRegistry(r).Get(s, name)
}

// New はクッキーのセッションIDからセッションを復元します。
// IDが無い、または対応するレコードが無い場合は新規セッションを返します。
func (s *RedisStore) New(r *http.Request, name string) (*gsessions.Session, error) {
	session := gsessions.NewSession(s, name)
	opts := *s.opts
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, cookie.Value, &id, s.codecs...); err != nil {
		return session, nil
	}
	session.ID = id

	if err := s.load(r.Context(), session); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return session, nil
		}
		return session, err
	}
	session.IsNew = false
	return session, nil
}

// Save はセッションをRedisへ保存し、IDをクッキーへ書き込みます。
// MaxAgeが負の場合はレコードとクッキーを削除します（ログアウト）。
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.rdb.Del(r.Context(), sessionKey(session.ID)).Err(); err != nil {
				return err
			}
		}
		http.SetCookie(w, gsessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if err := s.rotateIfRequested(r.Context(), session); err != nil {
		return err
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := s.store(r.Context(), session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, gsessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// rotateIfRequested はRotateIDKeyが設定されたセッションのIDを付け替えます。
// 旧IDのレコードは削除し、古いクッキーを持つクライアントを無効化します。
func (s *RedisStore) rotateIfRequested(ctx context.Context, session *gsessions.Session) error {
	if _, ok := session.Values[RotateIDKey]; !ok {
		return nil
	}
	delete(session.Values, RotateIDKey)

	if session.ID != "" {
		if err := s.rdb.Del(ctx, sessionKey(session.ID)).Err(); err != nil {
			return err
		}
	}
	session.ID = uuid.NewString()
	return nil
}

func (s *RedisStore) load(ctx context.Context, session *gsessions.Session) error {
	data, err := s.rdb.Get(ctx, sessionKey(session.ID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrSessionNotFound
		}
		return err
	}

	values, err := decodeValues(data)
	if err != nil {
		return err
	}
	for k, v := range values {
		session.Values[k] = v
	}
	return nil
}

func (s *RedisStore) store(ctx context.Context, session *gsessions.Session) error {
	payload, err := encodeValues(session.Values)
	if err != nil {
		return err
	}

	ttl := s.ttl
	if session.Options.MaxAge > 0 {
		ttl = time.Duration(session.Options.MaxAge) * time.Second
	}
	return s.rdb.Set(ctx, sessionKey(session.ID), payload, ttl).Err()
}

// encodeValues はセッション値をJSONへ変換します。
// JSON経由で数値はfloat64になるため、読み出し側は型を限定しないこと。
func encodeValues(values map[interface{}]interface{}) ([]byte, error) {
	record := make(map[string]any, len(values))
	for k, v := range values {
		key, ok := k.(string)
		if !ok {
			continue
		}
		record[key] = v
	}
	return json.Marshal(record)
}

func decodeValues(data []byte) (map[string]any, error) {
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return record, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
