package externalapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agendas-medicas/backend/internal/domain/entities"
	"github.com/agendas-medicas/backend/internal/domain/repositories"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	"github.com/agendas-medicas/backend/pkg/config"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

// DefaultSituationType is sent when the caller does not choose one.
const DefaultSituationType = "ACTIVE"

// Settings is the client configuration exposed by the diagnostics routes.
type Settings struct {
	BaseURL            string `json:"baseUrl"`
	MedicosPath        string `json:"medicosPath"`
	EspecialidadesPath string `json:"especialidadesPath"`
	AuthURL            string `json:"authUrl"`
	RefreshURL         string `json:"refreshUrl"`
}

// ProxyResult is the answer of an arbitrary authenticated call.
type ProxyResult struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
	OK     bool   `json:"success"`
	Raw    any    `json:"raw"`
}

// MedicosClient reads providers and specialties from the provider API.
type MedicosClient struct {
	settings Settings
	auth     *AuthClient
	logger   zerolog.Logger
}

var _ repositories.MedicoDirectory = (*MedicosClient)(nil)

// NewMedicosClient creates a client for the configured base URL.
func NewMedicosClient(cfg *config.ExternalConfig, auth *AuthClient) *MedicosClient {
	return &MedicosClient{
		settings: Settings{
			BaseURL:            strings.TrimRight(cfg.BaseURL, "/"),
			MedicosPath:        cfg.MedicosPath,
			EspecialidadesPath: cfg.EspecialidadesPath,
			AuthURL:            cfg.AuthURL,
			RefreshURL:         cfg.RefreshURL,
		},
		auth:   auth,
		logger: observability.Component("external"),
	}
}

// Settings returns the endpoints in use.
func (c *MedicosClient) Settings() Settings {
	return c.settings
}

// MedicosRaw returns the provider list exactly as the upstream sent it.
func (c *MedicosClient) MedicosRaw(ctx context.Context, situationType string) (any, error) {
	endpoint, err := url.Parse(c.settings.BaseURL + c.settings.MedicosPath)
	if err != nil {
		return nil, apperrors.NewInternalError("URL de médicos externa inválida", err)
	}
	if situationType == "" {
		situationType = DefaultSituationType
	}
	query := endpoint.Query()
	query.Set("situationType", situationType)
	endpoint.RawQuery = query.Encode()

	var data any
	if err := c.getJSON(ctx, endpoint.String(), "médicos externos", &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Medicos returns the provider list; the upstream must answer with an array.
func (c *MedicosClient) Medicos(ctx context.Context, situationType string) ([]entities.MedicoExterno, error) {
	data, err := c.MedicosRaw(ctx, situationType)
	if err != nil {
		return nil, err
	}
	items, ok := data.([]any)
	if !ok {
		return nil, apperrors.NewExternalError("Respuesta de API externa no es un array válido", nil)
	}
	medicos := make([]entities.MedicoExterno, 0, len(items))
	for _, item := range items {
		if record, ok := item.(map[string]any); ok {
			medicos = append(medicos, entities.MedicoExterno(record))
		}
	}
	return medicos, nil
}

// Especialidades returns the normalised specialty list. A single object is
// returned as a one-element list.
func (c *MedicosClient) Especialidades(ctx context.Context) ([]entities.EspecialidadExterna, error) {
	var data any
	endpoint := c.settings.BaseURL + c.settings.EspecialidadesPath
	if err := c.getJSON(ctx, endpoint, "especialidades externas", &data); err != nil {
		return nil, err
	}

	especialidades := []entities.EspecialidadExterna{}
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			if record, ok := item.(map[string]any); ok {
				especialidades = append(especialidades, entities.NewEspecialidadExterna(record))
			}
		}
	case map[string]any:
		especialidades = append(especialidades, entities.NewEspecialidadExterna(v))
	default:
		return nil, apperrors.NewExternalError("Respuesta de especialidades de API externa no es un array válido", nil)
	}
	return especialidades, nil
}

// maxProxyBody caps how much of a proxied response is buffered.
const maxProxyBody = 1 << 20

// Proxy performs an authenticated call to path. Relative paths are resolved
// against the base URL; absolute ones must point at the same host.
func (c *MedicosClient) Proxy(ctx context.Context, method, path string) (*ProxyResult, error) {
	target, err := c.Resolve(path)
	if err != nil {
		return nil, err
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Petición inválida: %v", err))
	}
	resp, err := c.auth.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyBody))
	if err != nil {
		return nil, apperrors.NewExternalError("Error leyendo respuesta externa", err)
	}

	result := &ProxyResult{
		URL:    target,
		Status: resp.StatusCode,
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Raw:    string(body),
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var decoded any
		if err := json.Unmarshal(body, &decoded); err == nil {
			result.Raw = decoded
		}
	}
	return result, nil
}

// Resolve turns a proxy path into an absolute URL. The bearer token is only
// ever sent to the configured API, so absolute URLs on another scheme or host
// are rejected.
func (c *MedicosClient) Resolve(path string) (string, error) {
	lower := strings.ToLower(path)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return c.settings.BaseURL + path, nil
	}

	target, err := url.Parse(path)
	if err != nil {
		return "", apperrors.NewValidationError(fmt.Sprintf("URL inválida: %v", err))
	}
	base, err := url.Parse(c.settings.BaseURL)
	if err != nil {
		return "", apperrors.NewInternalError("URL base externa inválida", err)
	}
	if !strings.EqualFold(target.Scheme, base.Scheme) || !strings.EqualFold(target.Host, base.Host) {
		return "", apperrors.NewValidationError("URL externa no permitida: solo se aceptan rutas de " + base.Scheme + "://" + base.Host)
	}
	return path, nil
}

func (c *MedicosClient) getJSON(ctx context.Context, endpoint, what string, out any) error {
	c.logger.Info().Str("url", endpoint).Msgf("Llamando API externa de %s", what)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewInternalError("URL externa inválida", err)
	}
	resp, err := c.auth.Do(req)
	if err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return err
		}
		return apperrors.NewExternalError(fmt.Sprintf("Error al obtener %s: %v", what, err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apperrors.NewExternalError(fmt.Sprintf("Error al obtener %s: %d | url=%s | %s",
			what, resp.StatusCode, endpoint, strings.TrimSpace(string(reason))), nil)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return apperrors.NewExternalError(fmt.Sprintf("Respuesta inválida al obtener %s", what), err)
	}
	return nil
}
