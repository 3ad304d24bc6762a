// Package api содержит HTTP-клиент для взаимодействия с сервером CalcKeeper.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя методы для отправки JSON-запросов (POST/GET)
// с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - Заголовок Content-Type: application/json добавляется только при наличии тела запроса.
//   - При ответах 204 No Content тело не читается и это считается успехом.
//   - Пустое тело ответа (EOF при декодировании) не считается ошибкой.
//   - При ошибочных ответах (не 2xx) возвращается *Error со статусом и сообщением
//     из поля "error" тела ответа (если тела нет — используется res.Status).
package api

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout — таймаут одного HTTP-запроса.
const DefaultTimeout = 10 * time.Second

// Error — ошибка, которую вернул сервер.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsStatus сообщает, что err — ответ сервера с указанным HTTP-статусом.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client реализует HTTP-клиент для общения с сервером CalcKeeper.
//
// Поля:
//   - baseURL: базовый адрес сервера без завершающего слэша.
//   - http: настроенный http.Client (таймаут, транспорт, TLS).
type Client struct {
	baseURL string
	http    *http.Client
}

// Option настраивает Client.
type Option func(*http.Transport)

// WithInsecureTLS отключает проверку сертификата сервера.
//
// ВНИМАНИЕ: делает TLS уязвимым для MITM. Использовать только для локальной
// разработки с самоподписанным сертификатом.
func WithInsecureTLS() Option {
	return func(tr *http.Transport) {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // только по явному флагу
	}
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// Параметры:
//   - baseURL: базовый адрес сервера (например: "http://127.0.0.1:8080").
//
// Поведение:
//   - обрезает завершающий "/" у baseURL;
//   - создаёт http.Client с таймаутом DefaultTimeout.
func NewClient(baseURL string, opts ...Option) *Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	for _, opt := range opts {
		opt(tr)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: tr,
		},
	}
}

// readAPIError читает тело ответа сервера и возвращает *Error.
//
// Сервер отвечает {"error": "..."}; если тело другое, сообщением
// становится весь текст тела, а если тела нет — res.Status.
func readAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)

	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = res.Status
	}
	return &Error{Status: res.StatusCode, Message: msg}
}

// decodeJSONOrOK декодирует JSON из r в resp.
//
// Если resp == nil — функция ничего не делает и возвращает nil.
// Пустое тело (io.EOF) не считается ошибкой.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// do выполняет запрос и возвращает заголовки успешного ответа.
func (c *Client) do(method, path string, req any, resp any, authToken string) (http.Header, error) {
	var buf bytes.Buffer
	if req != nil {
		if err := json.NewEncoder(&buf).Encode(req); err != nil {
			return nil, err
		}
	}

	r, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	r.Header.Set("Accept", "application/json")
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, readAPIError(res)
	}

	// 204/пустое тело — ок
	if res.StatusCode == http.StatusNoContent {
		return res.Header, nil
	}

	return res.Header, decodeJSONOrOK(res.Body, resp)
}

// PostJSON выполняет POST-запрос к серверу, сериализуя req в JSON.
//
// req == nil — запрос без тела, resp == nil — ответ не декодируется.
// Непустой authToken добавляется заголовком Authorization: Bearer <token>.
func (c *Client) PostJSON(path string, req any, resp any, authToken string) error {
	_, err := c.do(http.MethodPost, path, req, resp, authToken)
	return err
}

// GetJSON выполняет GET-запрос к серверу и (опционально) декодирует JSON-ответ.
//
// Возвращает заголовки ответа: из них читается курсор следующей страницы истории.
func (c *Client) GetJSON(path string, resp any, authToken string) (http.Header, error) {
	return c.do(http.MethodGet, path, nil, resp, authToken)
}
