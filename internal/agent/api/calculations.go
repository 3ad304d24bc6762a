package api

import (
	"net/url"
	"strconv"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/models"
)

// Calculate отправляет операцию на сервер и возвращает сохранённую запись.
func (c *Client) Calculate(accessToken, operation string, a, b float64) (models.CalculationRecord, error) {
	var resp models.CalculationRecord
	req := models.CalculateRequest{Operation: operation, A: &a, B: &b}
	err := c.PostJSON("/calculate", req, &resp, accessToken)
	return resp, err
}

// History возвращает страницу истории и курсор следующей страницы
// (пустой, если страниц больше нет).
func (c *Client) History(accessToken string, limit int, cursor string) ([]models.CalculationRecord, string, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	path := "/history"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp []models.CalculationRecord
	h, err := c.GetJSON(path, &resp, accessToken)
	if err != nil {
		return nil, "", err
	}
	return resp, h.Get(models.NextCursorHeader), nil
}

// GetCalculation возвращает одну запись истории.
func (c *Client) GetCalculation(accessToken, id string) (models.CalculationRecord, error) {
	var resp models.CalculationRecord
	_, err := c.GetJSON("/history/"+url.PathEscape(id), &resp, accessToken)
	return resp, err
}
