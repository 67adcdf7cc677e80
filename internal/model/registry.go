package model

import (
	"fmt"
	"sort"
	"time"
)

// Device is a deployed air quality monitor
type Device struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	LongName       string     `json:"long_name,omitempty"`
	Network        string     `json:"network,omitempty"`
	Category       string     `json:"category,omitempty"`
	Status         string     `json:"status,omitempty"`
	IsActive       bool       `json:"isActive"`
	Site           string     `json:"site_id,omitempty"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Description    string     `json:"description,omitempty"`
	DeploymentDate *time.Time `json:"deployment_date,omitempty"`
	CreatedOn      time.Time  `json:"created_on"`
	UpdatedOn      time.Time  `json:"updated_on"`
}

// Site is a physical location hosting devices
type Site struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	GeneratedName string    `json:"generated_name"`
	Network       string    `json:"network,omitempty"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Country       string    `json:"country,omitempty"`
	District      string    `json:"district,omitempty"`
	Description   string    `json:"description,omitempty"`
	Status        string    `json:"status,omitempty"`
	CreatedOn     time.Time `json:"created_on"`
	UpdatedOn     time.Time `json:"updated_on"`
}

// Activity records a deployment, recall or maintenance on a device
type Activity struct {
	ID           string    `json:"id"`
	Device       string    `json:"device"`
	Site         string    `json:"site_id,omitempty"`
	ActivityType string    `json:"activityType"`
	Description  string    `json:"description,omitempty"`
	Network      string    `json:"network,omitempty"`
	Tags         []string  `json:"tags"`
	Date         time.Time `json:"date"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// RegistryKind names a registry collection that batch updates target
type RegistryKind string

const (
	KindDevice   RegistryKind = "device"
	KindSite     RegistryKind = "site"
	KindActivity RegistryKind = "activity"
)

// registryFields lists, per kind, the fields a batch item may filter on and set.
var registryFields = map[RegistryKind]struct {
	filter []string
	update []string
}{
	KindDevice: {
		filter: []string{"id", "name", "network", "site_id", "status", "category"},
		update: []string{"long_name", "network", "category", "status", "isActive", "site_id", "latitude", "longitude", "description", "deployment_date"},
	},
	KindSite: {
		filter: []string{"id", "name", "generated_name", "network", "country", "district"},
		update: []string{"name", "network", "latitude", "longitude", "country", "district", "description", "status"},
	},
	KindActivity: {
		filter: []string{"id", "device", "site_id", "activityType", "network"},
		update: []string{"site_id", "activityType", "description", "network", "tags", "date"},
	},
}

// BatchItem is one {filter, update} pair of a batch job
type BatchItem struct {
	Filter map[string]string      `json:"filter" yaml:"filter"`
	Update map[string]interface{} `json:"update" yaml:"update"`
}

// Translate checks the item against the kind's field lists and returns the
// repository filter and update.
func (k RegistryKind) Translate(item BatchItem) (Filter, Update, []FieldError) {
	fields, ok := registryFields[k]
	if !ok {
		return nil, Update{}, []FieldError{{Field: "kind", Message: fmt.Sprintf("unknown registry kind %q", k)}}
	}

	var errs []FieldError
	if len(item.Filter) == 0 {
		errs = append(errs, FieldError{Field: "filter", Message: "filter must select a record"})
	}
	if len(item.Update) == 0 {
		errs = append(errs, FieldError{Field: "update", Message: "update must set at least one field"})
	}

	filter := Filter{}
	for _, name := range sortedKeys(item.Filter) {
		if !contains(fields.filter, name) {
			errs = append(errs, FieldError{Field: "filter." + name, Message: "field cannot be filtered on"})
			continue
		}
		filter[name] = item.Filter[name]
	}

	set := make(map[string]interface{}, len(item.Update))
	for name, value := range item.Update {
		if !contains(fields.update, name) {
			errs = append(errs, FieldError{Field: "update." + name, Message: "field cannot be updated"})
			continue
		}
		set[name] = value
	}

	if len(errs) > 0 {
		return nil, Update{}, errs
	}
	return filter, Update{Set: set}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
