package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// R2Config descreve parâmetros necessários para pré-assinar URLs no R2.
type R2Config struct {
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// R2Presigner emite URLs pré-assinadas (SigV4 em query string) para
// operações pontuais sobre objetos do bucket configurado.
type R2Presigner struct {
	cfg  R2Config
	host string
}

// NewR2Presigner cria um presigner pronto para o endpoint S3 do R2.
func NewR2Presigner(cfg R2Config) (*R2Presigner, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &R2Presigner{
		cfg:  cfg,
		host: fmt.Sprintf("%s.r2.cloudflarestorage.com", cfg.AccountID),
	}, nil
}

// PresignPut devolve uma URL que autoriza um único PUT do objeto,
// com o Content-Type declarado assinado junto.
func (p *R2Presigner) PresignPut(key, contentType string, expiry time.Duration) (string, error) {
	headers := map[string]string{}
	if strings.TrimSpace(contentType) != "" {
		headers["content-type"] = contentType
	}
	return p.presign(http.MethodPut, key, headers, expiry, time.Now().UTC())
}

// PresignDelete devolve uma URL que autoriza um único DELETE do objeto.
func (p *R2Presigner) PresignDelete(key string, expiry time.Duration) (string, error) {
	return p.presign(http.MethodDelete, key, nil, expiry, time.Now().UTC())
}

// PublicURL devolve a URL pública estável do objeto. Ela só resolve de
// fato depois que o upload correspondente acontecer.
func (p *R2Presigner) PublicURL(key string) string {
	return strings.TrimRight(p.cfg.PublicURL, "/") + "/" + uriEncode(strings.TrimLeft(key, "/"), false)
}

func (p *R2Presigner) presign(method, key string, extraHeaders map[string]string, expiry time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("storage: chave do objeto obrigatória")
	}
	if expiry <= 0 {
		return "", errors.New("storage: validade da URL deve ser positiva")
	}

	now = now.UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	credentialScope := fmt.Sprintf("%s/auto/s3/aws4_request", dateStamp)

	headers := map[string]string{"host": p.host}
	for k, v := range extraHeaders {
		headers[strings.ToLower(k)] = strings.TrimSpace(v)
	}

	headerNames := make([]string, 0, len(headers))
	for name := range headers {
		headerNames = append(headerNames, name)
	}
	sort.Strings(headerNames)

	var headerLines strings.Builder
	for _, name := range headerNames {
		headerLines.WriteString(name)
		headerLines.WriteString(":")
		headerLines.WriteString(headers[name])
		headerLines.WriteString("\n")
	}
	signedHeaders := strings.Join(headerNames, ";")

	query := map[string]string{
		"X-Amz-Algorithm":     "AWS4-HMAC-SHA256",
		"X-Amz-Credential":    fmt.Sprintf("%s/%s", p.cfg.AccessKey, credentialScope),
		"X-Amz-Date":          amzDate,
		"X-Amz-Expires":       fmt.Sprintf("%d", int(expiry.Seconds())),
		"X-Amz-SignedHeaders": signedHeaders,
	}

	queryKeys := make([]string, 0, len(query))
	for k := range query {
		queryKeys = append(queryKeys, k)
	}
	sort.Strings(queryKeys)

	queryParts := make([]string, 0, len(query))
	for _, k := range queryKeys {
		queryParts = append(queryParts, uriEncode(k, true)+"="+uriEncode(query[k], true))
	}
	canonicalQuery := strings.Join(queryParts, "&")

	canonicalURI := "/" + p.cfg.Bucket + "/" + uriEncode(strings.TrimLeft(key, "/"), false)

	canonicalRequest := strings.Join([]string{
		method,
		canonicalURI,
		canonicalQuery,
		headerLines.String(),
		signedHeaders,
		"UNSIGNED-PAYLOAD",
	}, "\n")

	hashedCanonical := sha256.Sum256([]byte(canonicalRequest))
	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		credentialScope,
		hex.EncodeToString(hashedCanonical[:]),
	}, "\n")

	signingKey := deriveSigningKey(p.cfg.SecretKey, dateStamp, "auto", "s3")
	signature := hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))

	return fmt.Sprintf("https://%s%s?%s&X-Amz-Signature=%s", p.host, canonicalURI, canonicalQuery, signature), nil
}

func (cfg R2Config) validate() error {
	if strings.TrimSpace(cfg.AccountID) == "" {
		return errors.New("storage: account id do R2 ausente")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return errors.New("storage: bucket do R2 ausente")
	}
	if strings.TrimSpace(cfg.AccessKey) == "" {
		return errors.New("storage: access key ausente")
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return errors.New("storage: secret key ausente")
	}
	if strings.TrimSpace(cfg.PublicURL) == "" {
		return errors.New("storage: url pública ausente")
	}
	return nil
}

func uriEncode(input string, encodeSlash bool) string {
	var builder strings.Builder
	for i := 0; i < len(input); i++ {
		c := input[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == '.' || c == '~' {
			builder.WriteByte(c)
			continue
		}
		if c == '/' && !encodeSlash {
			builder.WriteByte(c)
			continue
		}
		builder.WriteString(fmt.Sprintf("%%%02X", c))
	}
	return builder.String()
}

func deriveSigningKey(secret, dateStamp, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte("aws4_request"))
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
