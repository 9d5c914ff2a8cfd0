package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

const maxResponseBytes = 8 << 20

// Options configure a Client.
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// Client is the HTTP implementation of Gateway. All calls share one circuit
// breaker; 5xx responses and network errors count as failures.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

// NewClient creates a catalog client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	logger = logger.With().Str("component", "catalog-client").Logger()

	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 1,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, ErrNotFound) {
				return true
			}
			var te *TransportError
			return errors.As(err, &te) && te.StatusCode >= 400 && te.StatusCode < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("catalog circuit breaker state changed")
		},
	})

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    &http.Client{Timeout: opts.Timeout},
		breaker: breaker,
		logger:  logger,
	}
}

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	return getList[model.Category](ctx, c, "list categories", "/categories")
}

func (c *Client) ListSubcategories(ctx context.Context) ([]model.Subcategory, error) {
	return getList[model.Subcategory](ctx, c, "list subcategories", "/subcategories")
}

func (c *Client) ListSubcategoriesByCategory(ctx context.Context, categoryID int64) ([]model.Subcategory, error) {
	return getList[model.Subcategory](ctx, c, "list subcategories by category", "/subcategories/category/"+idPath(categoryID))
}

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	return getList[model.Product](ctx, c, "list products", "/products")
}

func (c *Client) ListProductsBySubcategory(ctx context.Context, name string) ([]model.Product, error) {
	return getList[model.Product](ctx, c, "list products by subcategory", "/products/subcategory?name="+url.QueryEscape(name))
}

func (c *Client) CreateCategory(ctx context.Context, in model.CategoryInput) (*model.Category, error) {
	return sendJSON[model.Category](ctx, c, "create category", http.MethodPost, "/categories", in)
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in model.CategoryInput) (*model.Category, error) {
	return sendJSON[model.Category](ctx, c, "update category", http.MethodPut, "/categories/"+idPath(id), in)
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "delete category", http.MethodDelete, "/categories/"+idPath(id), "", nil)
	return err
}

func (c *Client) CreateSubcategory(ctx context.Context, in model.SubcategoryInput) (*model.Subcategory, error) {
	return sendJSON[model.Subcategory](ctx, c, "create subcategory", http.MethodPost, "/subcategories", in)
}

func (c *Client) UpdateSubcategory(ctx context.Context, id int64, in model.SubcategoryInput) (*model.Subcategory, error) {
	return sendJSON[model.Subcategory](ctx, c, "update subcategory", http.MethodPut, "/subcategories/"+idPath(id), in)
}

func (c *Client) DeleteSubcategory(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "delete subcategory", http.MethodDelete, "/subcategories/"+idPath(id), "", nil)
	return err
}

func (c *Client) CreateProduct(ctx context.Context, in model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	return c.sendProduct(ctx, "create product", http.MethodPost, "/products", in, image)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	return c.sendProduct(ctx, "update product", http.MethodPut, "/products/"+idPath(id), in, image)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "delete product", http.MethodDelete, "/products/"+idPath(id), "", nil)
	return err
}

// sendProduct posts a multipart form with the product as a JSON "product"
// part and an optional "image" file part.
func (c *Client) sendProduct(ctx context.Context, op, method, path string, in model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	productJSON, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product: %w", err)
	}
	if err := form.WriteField("product", string(productJSON)); err != nil {
		return nil, fmt.Errorf("failed to write product part: %w", err)
	}

	if image != nil && image.Body != nil {
		contentType := image.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, image.Filename))
		header.Set("Content-Type", contentType)

		part, err := form.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := io.Copy(part, image.Body); err != nil {
			return nil, fmt.Errorf("failed to copy image: %w", err)
		}
	}

	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	body, err := c.do(ctx, op, method, path, form.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	return decode[model.Product](op, body)
}

// do executes one request through the circuit breaker and returns the body
// of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, path, contentType string, payload []byte) ([]byte, error) {
	start := time.Now()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, &TransportError{Op: op, Err: err}
		}
		req.Header.Set("Accept", "application/json")
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &TransportError{Op: op, Err: err}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return nil, &TransportError{
				Op:         op,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("%s", strings.TrimSpace(string(data))),
			}
		}
		return data, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &TransportError{Op: op, Err: err}
	}

	event := c.logger.Debug()
	if err != nil && !errors.Is(err, ErrNotFound) {
		event = c.logger.Warn().Err(err)
	}
	event.
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Dur("duration", time.Since(start)).
		Msg("catalog request")

	return body, err
}

func getList[T any](ctx context.Context, c *Client, op, path string) ([]T, error) {
	body, err := c.do(ctx, op, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("invalid response body: %w", err)}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func sendJSON[T any](ctx context.Context, c *Client, op, method, path string, in any) (*T, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	body, err := c.do(ctx, op, method, path, "application/json", payload)
	if err != nil {
		return nil, err
	}
	return decode[T](op, body)
}

func decode[T any](op string, body []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("invalid response body: %w", err)}
	}
	return &out, nil
}

func idPath(id int64) string {
	return strconv.FormatInt(id, 10)
}
