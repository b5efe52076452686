package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.cloudflare.com/client/v4"

// Client encapsula chamadas à API do Cloudflare Stream.
type Client struct {
	httpClient *http.Client
	apiToken   string
	accountID  string
	baseURL    string
}

// Config descreve credenciais essenciais para o cliente.
type Config struct {
	AccountID string
	APIToken  string
	APIBase   string
}

// New cria um novo cliente utilizando API Token.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AccountID) == "" {
		return nil, errors.New("stream: account id obrigatório")
	}
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, errors.New("stream: api token obrigatório")
	}

	apiBase := strings.TrimSpace(cfg.APIBase)
	if apiBase == "" {
		apiBase = defaultAPIBase
	}

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiToken:   cfg.APIToken,
		accountID:  cfg.AccountID,
		baseURL:    strings.TrimRight(apiBase, "/"),
	}, nil
}

// DirectUploadInput parametriza a criação de um slot de upload direto.
type DirectUploadInput struct {
	MaxDurationSeconds int
	Meta               map[string]string
}

// DirectUpload é o slot devolvido pela API: a URL de upload é de uso
// único e o uid identifica o vídeo resultante.
type DirectUpload struct {
	UploadURL string `json:"uploadURL"`
	UID       string `json:"uid"`
}

// Video representa o estado de um vídeo tal como reportado pela API.
type Video struct {
	UID           string            `json:"uid"`
	ReadyToStream bool              `json:"readyToStream"`
	Thumbnail     string            `json:"thumbnail"`
	Duration      float64           `json:"duration"`
	Meta          map[string]string `json:"meta"`
	Status        struct {
		State string `json:"state"`
	} `json:"status"`
	Playback struct {
		HLS  string `json:"hls"`
		Dash string `json:"dash"`
	} `json:"playback"`
	Input struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"input"`
}

// CreateDirectUpload abre um slot de upload direto para o criador.
func (c *Client) CreateDirectUpload(ctx context.Context, input DirectUploadInput) (*DirectUpload, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s/stream/direct_upload", c.baseURL, c.accountID)
	body := map[string]any{
		"maxDurationSeconds": input.MaxDurationSeconds,
		"requireSignedURLs":  false,
	}
	if len(input.Meta) > 0 {
		body["meta"] = input.Meta
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success bool         `json:"success"`
		Errors  []apiError   `json:"errors"`
		Result  DirectUpload `json:"result"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, joinAPIErrors(resp.Errors)
	}
	return &resp.Result, nil
}

// GetVideo consulta um vídeo pelo uid.
func (c *Client) GetVideo(ctx context.Context, uid string) (*Video, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s/stream/%s", c.baseURL, c.accountID, uid)
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success bool       `json:"success"`
		Errors  []apiError `json:"errors"`
		Result  Video      `json:"result"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, joinAPIErrors(resp.Errors)
	}
	return &resp.Result, nil
}

// DeleteVideo remove um vídeo pelo uid.
func (c *Client) DeleteVideo(ctx context.Context, uid string) error {
	endpoint := fmt.Sprintf("%s/accounts/%s/stream/%s", c.baseURL, c.accountID, uid)
	req, err := c.newRequest(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	var (
		req *http.Request
		err error
	)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req, err = http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, nil)
		if err != nil {
			return nil, err
		}
	}

	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("stream api: status %d", resp.StatusCode)
	}

	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

type apiError struct {
	Message string `json:"message"`
}

func (a apiError) Error() string {
	if strings.TrimSpace(a.Message) == "" {
		return "stream: erro desconhecido"
	}
	return a.Message
}

func joinAPIErrors(errs []apiError) error {
	if len(errs) == 0 {
		return errors.New("stream: resposta sem sucesso")
	}
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return errors.New(strings.Join(messages, "; "))
}
