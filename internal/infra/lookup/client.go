package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"consulta-vehicular/internal/config"
	"consulta-vehicular/internal/domain/model"
	"consulta-vehicular/internal/domain/ports/adapter"
)

// Compile-time assurance the client satisfies both ports
var (
	_ adapter.LookupClient   = (*Client)(nil)
	_ adapter.IdentityClient = (*Client)(nil)
)

// Client talks to the upstream consultation and identity endpoints. One POST
// path per service id; the JSON body is keyed by the service's field name.
type Client struct {
	base    string
	paths   map[model.ServiceKey]string
	empresa string
	persona string
	dni     string
	client  *http.Client
}

var defaultPaths = map[model.ServiceKey]string{
	model.ServiceSoat:     "/api/consulta/soat",
	model.ServiceItv:      "/api/consulta/itv",
	model.ServiceSunarp:   "/api/consulta/sunarp",
	model.ServiceLicencia: "/api/consulta/licencia",
	model.ServiceDni:      "/api/consulta/dni",
	model.ServiceRedam:    "/api/consulta/redam",
}

func NewClient(cfg config.LookupConfig) *Client {
	paths := make(map[model.ServiceKey]string, len(defaultPaths))
	for k, v := range defaultPaths {
		paths[k] = v
	}
	for k, v := range cfg.Services {
		paths[model.ServiceKey(k)] = v
	}
	c := &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		paths:   paths,
		empresa: cfg.Identity.EmpresaPath,
		persona: cfg.Identity.PersonaPath,
		dni:     cfg.Identity.DniPath,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
	if c.empresa == "" {
		c.empresa = "/api/buscar/empresa"
	}
	if c.persona == "" {
		c.persona = "/api/buscar/persona"
	}
	if c.dni == "" {
		c.dni = "/api/buscar/dni"
	}
	return c
}

// Consultar issues the POST for one service. Non-2xx responses become errors
// carrying the status and body text.
func (c *Client) Consultar(ctx context.Context, svc model.ServiceKey, campo model.FieldKind, valor string, extraerPropietarios bool) (*adapter.LookupResult, error) {
	path, ok := c.paths[svc]
	if !ok {
		return nil, fmt.Errorf("no endpoint for service %q", svc)
	}

	body := map[string]any{string(campo): valor}
	if extraerPropietarios {
		body["extraer_propietarios"] = true
	}
	raw, err := c.post(ctx, path, body)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("consulta %s: decode response: %w", svc, err)
	}
	return &adapter.LookupResult{Raw: raw, Payload: payload, Path: path}, nil
}

func (c *Client) BuscarEmpresaPorNombre(ctx context.Context, nombre string) (map[string]any, error) {
	return c.firstResult(ctx, c.empresa, map[string]any{"nombre": nombre})
}

func (c *Client) BuscarPersonaPorNombre(ctx context.Context, apPaterno, apMaterno, nombres string) (map[string]any, error) {
	return c.firstResult(ctx, c.persona, map[string]any{
		"ap_paterno": apPaterno,
		"ap_materno": apMaterno,
		"nombres":    nombres,
	})
}

func (c *Client) BuscarPorDni(ctx context.Context, dni string) (map[string]any, error) {
	return c.firstResult(ctx, c.dni, map[string]any{"dni": dni})
}

// firstResult POSTs and returns the first element of the upstream
// `resultados` array, or nil when there is no match.
func (c *Client) firstResult(ctx context.Context, path string, body map[string]any) (map[string]any, error) {
	raw, err := c.post(ctx, path, body)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Resultados []map[string]any `json:"resultados"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	if len(payload.Resultados) == 0 {
		return nil, nil
	}
	return payload.Resultados[0], nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
