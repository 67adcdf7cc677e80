package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHostRepo struct {
	hosts    []*model.Host
	lastOpts model.ListOptions
}

func (m *mockHostRepo) Create(ctx context.Context, t tenant.ID, req *model.CreateHostRequest) (*model.Host, error) {
	var dup []string
	for _, h := range m.hosts {
		if h.Email == req.Email {
			dup = append(dup, "email")
		}
		if h.PhoneNumber == req.PhoneNumber {
			dup = append(dup, "phone_number")
		}
	}
	if len(dup) > 0 {
		return nil, &database.DuplicateKeyError{Index: "hostIndex", Fields: dup}
	}
	h := &model.Host{
		ID:          "host:" + req.PhoneNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		SiteID:      req.SiteID,
	}
	m.hosts = append(m.hosts, h)
	return h, nil
}

func (m *mockHostRepo) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.Host, error) {
	m.lastOpts = opts
	var out []*model.Host
	for _, h := range m.hosts {
		if site, ok := filter["site_id"]; ok && site != h.SiteID {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (m *mockHostRepo) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.Host, error) {
	for _, h := range m.hosts {
		if recordKey(h.ID) == recordKey(filter["id"].(string)) {
			if v, ok := update.Set["first_name"].(string); ok {
				h.FirstName = v
			}
			return h, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *mockHostRepo) Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.HostSummary, error) {
	for i, h := range m.hosts {
		if recordKey(h.ID) == recordKey(filter["id"].(string)) {
			m.hosts = append(m.hosts[:i], m.hosts[i+1:]...)
			return h.Summary(), nil
		}
	}
	return nil, database.ErrNotFound
}

func TestHostService(t *testing.T) {
	ctx := context.Background()
	repo := &mockHostRepo{}
	svc := NewHostService(repo, 0)

	req := &model.CreateHostRequest{FirstName: "Ann", LastName: "Host", PhoneNumber: "0700000001", Email: "ANN@host.ug", SiteID: "site-1"}
	res := svc.Register(ctx, kcca, req)
	require.True(t, res.Success, res.Errors)
	assert.Equal(t, "ann@host.ug", res.Data.Email)

	dup := svc.Register(ctx, kcca, &model.CreateHostRequest{FirstName: "Ann", LastName: "Other", PhoneNumber: "0700000001", Email: "other@host.ug"})
	assert.Equal(t, http.StatusConflict, dup.Status)
	assert.Equal(t, model.Errors{"phone_number": "the phone_number must be unique"}, dup.Errors)

	list := svc.List(ctx, kcca, model.Filter{}.With("site_id", "site-1"), model.ListOptions{Limit: 5000})
	require.True(t, list.Success)
	assert.Len(t, list.Data, 1)
	assert.Equal(t, model.MaxListLimit, repo.lastOpts.Limit)

	list = svc.List(ctx, kcca, nil, model.ListOptions{})
	assert.Equal(t, model.DefaultHostLimit, repo.lastOpts.Limit)

	name := "Annie"
	mod := svc.Modify(ctx, kcca, model.Filter{"id": "0700000001"}, &model.UpdateHostRequest{FirstName: &name})
	require.True(t, mod.Success, mod.Errors)
	assert.Equal(t, "Annie", mod.Data.FirstName)

	gone := svc.Remove(ctx, kcca, model.Filter{"id": res.Data.ID})
	require.True(t, gone.Success)
	assert.Equal(t, "successfully removed the host", gone.Message)
	assert.Equal(t, "Annie", gone.Data.FirstName)
}

type mockDefaultRepo struct {
	defaults []*model.Default
	lastOpts model.ListOptions
}

func (m *mockDefaultRepo) Create(ctx context.Context, t tenant.ID, req *model.CreateDefaultRequest) (*model.Default, error) {
	for _, d := range m.defaults {
		if d.User == req.User && d.ChartTitle == req.ChartTitle {
			return nil, &database.DuplicateKeyError{Index: "defaultUserChartIndex", Fields: []string{"user", "chartTitle"}}
		}
	}
	d := &model.Default{ID: "user_default:" + req.ChartTitle, User: req.User, ChartTitle: req.ChartTitle, Pollutant: req.Pollutant, Frequency: req.Frequency}
	m.defaults = append(m.defaults, d)
	return d, nil
}

func (m *mockDefaultRepo) List(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*model.Default, error) {
	m.lastOpts = opts
	return m.defaults, nil
}

func (m *mockDefaultRepo) Modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*model.Default, error) {
	return nil, database.ErrNotFound
}

func (m *mockDefaultRepo) Remove(ctx context.Context, t tenant.ID, filter model.Filter) (*model.DefaultSummary, error) {
	if len(m.defaults) == 0 {
		return nil, database.ErrNotFound
	}
	d := m.defaults[0]
	m.defaults = m.defaults[1:]
	return d.Summary(), nil
}

func TestDefaultService(t *testing.T) {
	ctx := context.Background()
	repo := &mockDefaultRepo{}
	svc := NewDefaultService(repo, 0)

	req := &model.CreateDefaultRequest{User: "user:jane", ChartTitle: "Kampala PM2.5", Pollutant: model.PollutantPM25, Frequency: model.FrequencyDaily}
	res := svc.Register(ctx, kcca, req)
	require.True(t, res.Success, res.Errors)
	assert.Equal(t, "default created", res.Message)

	dup := svc.Register(ctx, kcca, req)
	assert.Equal(t, http.StatusConflict, dup.Status)
	assert.Len(t, dup.Errors, 2)

	bad := svc.Register(ctx, kcca, &model.CreateDefaultRequest{User: "user:jane", ChartTitle: "x", Pollutant: "co2", Frequency: model.FrequencyDaily})
	assert.Equal(t, http.StatusBadRequest, bad.Status)
	assert.Contains(t, bad.Errors, "pollutant")

	list := svc.List(ctx, kcca, nil, model.ListOptions{})
	require.True(t, list.Success)
	assert.Equal(t, "successfully listed the defaults", list.Message)
	assert.Equal(t, model.DefaultChartDefaultLimit, repo.lastOpts.Limit)

	title := "Renamed"
	mod := svc.Modify(ctx, kcca, model.Filter{"id": "nope"}, &model.UpdateDefaultRequest{ChartTitle: &title})
	assert.Equal(t, http.StatusNotFound, mod.Status)
	assert.Equal(t, "default not found", mod.Message)

	gone := svc.Remove(ctx, kcca, model.Filter{"id": res.Data.ID})
	require.True(t, gone.Success)
	assert.Equal(t, "Kampala PM2.5", gone.Data.ChartTitle)
}
