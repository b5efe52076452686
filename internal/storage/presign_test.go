package storage

import (
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"
)

func newTestPresigner(t *testing.T) *R2Presigner {
	t.Helper()
	p, err := NewR2Presigner(R2Config{
		AccountID: "acct123",
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
		Bucket:    "highwoods-storage",
		PublicURL: "https://pub.example.dev",
	})
	if err != nil {
		t.Fatalf("presigner: %v", err)
	}
	return p
}

func TestPresignPutShape(t *testing.T) {
	p := newTestPresigner(t)

	raw, err := p.PresignPut("u1/p1/abc.png", "image/png", 300*time.Second)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url inválida: %v", err)
	}
	if u.Host != "acct123.r2.cloudflarestorage.com" {
		t.Errorf("host = %s", u.Host)
	}
	if u.Path != "/highwoods-storage/u1/p1/abc.png" {
		t.Errorf("path = %s", u.Path)
	}

	q := u.Query()
	if q.Get("X-Amz-Algorithm") != "AWS4-HMAC-SHA256" {
		t.Errorf("algoritmo = %s", q.Get("X-Amz-Algorithm"))
	}
	if q.Get("X-Amz-Expires") != "300" {
		t.Errorf("expiração = %s", q.Get("X-Amz-Expires"))
	}
	if q.Get("X-Amz-SignedHeaders") != "content-type;host" {
		t.Errorf("signed headers = %s", q.Get("X-Amz-SignedHeaders"))
	}
	if !strings.HasPrefix(q.Get("X-Amz-Credential"), "AKIDEXAMPLE/") || !strings.HasSuffix(q.Get("X-Amz-Credential"), "/auto/s3/aws4_request") {
		t.Errorf("credential = %s", q.Get("X-Amz-Credential"))
	}
	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(q.Get("X-Amz-Signature")) {
		t.Errorf("assinatura malformada: %s", q.Get("X-Amz-Signature"))
	}
}

func TestPresignDeleteSignsHostOnly(t *testing.T) {
	p := newTestPresigner(t)

	raw, err := p.PresignDelete("u1/p1/abc.png", 300*time.Second)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url inválida: %v", err)
	}
	if got := u.Query().Get("X-Amz-SignedHeaders"); got != "host" {
		t.Errorf("signed headers = %s", got)
	}
}

func TestPresignDeterministicForFixedInstant(t *testing.T) {
	p := newTestPresigner(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	a, err := p.presign("PUT", "u1/p1/abc.png", map[string]string{"content-type": "image/png"}, 300*time.Second, now)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	b, err := p.presign("PUT", "u1/p1/abc.png", map[string]string{"content-type": "image/png"}, 300*time.Second, now)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if a != b {
		t.Fatal("assinatura deveria ser determinística para o mesmo instante")
	}
	if !strings.Contains(a, "X-Amz-Date=20260830T120000Z") {
		t.Errorf("data de assinatura ausente: %s", a)
	}
}

func TestPresignValidation(t *testing.T) {
	p := newTestPresigner(t)

	if _, err := p.PresignPut("", "image/png", 300*time.Second); err == nil {
		t.Error("chave vazia deveria falhar")
	}
	if _, err := p.PresignDelete("u1/a.jpg", 0); err == nil {
		t.Error("validade zero deveria falhar")
	}
}

func TestPublicURL(t *testing.T) {
	p := newTestPresigner(t)

	if got := p.PublicURL("u1/p1/abc.png"); got != "https://pub.example.dev/u1/p1/abc.png" {
		t.Errorf("publicUrl = %s", got)
	}
}

func TestNewR2PresignerValidation(t *testing.T) {
	_, err := NewR2Presigner(R2Config{AccountID: "a", Bucket: "b", AccessKey: "k", SecretKey: "", PublicURL: "https://x"})
	if err == nil {
		t.Fatal("config incompleta deveria falhar")
	}
}
