// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package osmsync

import (
	"strings"
	"time"

	"m4o.io/osmsync/model"
)

// DateLayout is the format of check_date values.
const DateLayout = "2006-01-02"

// Address is the postal address of a business.
type Address struct {
	HouseNumber string `yaml:"housenumber" json:"housenumber,omitempty"`
	Street      string `yaml:"street" json:"street,omitempty"`
	City        string `yaml:"city" json:"city,omitempty"`
	Postcode    string `yaml:"postcode" json:"postcode,omitempty"`
	State       string `yaml:"state" json:"state,omitempty"`
	Country     string `yaml:"country" json:"country,omitempty"`
}

// Contact holds the ways to reach a business.
type Contact struct {
	Phone     string `yaml:"phone" json:"phone,omitempty"`
	Website   string `yaml:"website" json:"website,omitempty"`
	Email     string `yaml:"email" json:"email,omitempty"`
	Facebook  string `yaml:"facebook" json:"facebook,omitempty"`
	Instagram string `yaml:"instagram" json:"instagram,omitempty"`
	Twitter   string `yaml:"twitter" json:"twitter,omitempty"`
}

// Acceptance records which bitcoin payment methods a business takes.
type Acceptance struct {
	Onchain              bool `yaml:"onchain" json:"onchain,omitempty"`
	Lightning            bool `yaml:"lightning" json:"lightning,omitempty"`
	LightningContactless bool `yaml:"lightning_contactless" json:"lightning_contactless,omitempty"`

	// Other lists further accepted payment methods.
	Other []string `yaml:"other" json:"other,omitempty"`
}

// Any reports whether at least one bitcoin payment method is accepted.
func (a Acceptance) Any() bool {
	return a.Onchain || a.Lightning || a.LightningContactless
}

// Submission is the validated field set of a business submission.
type Submission struct {
	Name string `yaml:"name" json:"name"`

	// Category is a "key=value" pair such as "shop=coffee" or "amenity=cafe".
	Category     string        `yaml:"category" json:"category,omitempty"`
	Description  string        `yaml:"description" json:"description,omitempty"`
	OpeningHours string        `yaml:"opening_hours" json:"opening_hours,omitempty"`
	Wheelchair   string        `yaml:"wheelchair" json:"wheelchair,omitempty"`
	Lat          model.Degrees `yaml:"lat" json:"lat"`
	Lon          model.Degrees `yaml:"lon" json:"lon"`
	Address      Address       `yaml:"address" json:"address"`
	Contact      Contact       `yaml:"contact" json:"contact"`
	Accepts      Acceptance    `yaml:"accepts" json:"accepts"`

	// Comment overrides the changeset comment.
	Comment string `yaml:"comment" json:"comment,omitempty"`
}

// Position returns the submitted coordinates.
func (s Submission) Position() model.LatLon {
	return model.LatLon{Lat: s.Lat, Lon: s.Lon}
}

// ChangesetComment returns the comment of the changeset publishing s.
func (s Submission) ChangesetComment(strategy Strategy) string {
	if c := strings.TrimSpace(s.Comment); c != "" {
		return c
	}

	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = "business"
	}

	if strategy == Update {
		return "Update " + name
	}

	return "Add " + name
}

// splitCategory splits "shop=coffee" into its key and value.
func splitCategory(category string) (string, string, bool) {
	key, value, ok := strings.Cut(category, "=")
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)

	if !ok || key == "" || value == "" {
		return "", "", false
	}

	return key, value, true
}

// BuildTags maps the submission onto OSM tags. Empty fields produce no tag.
// check_date is always stamped with the date of now, and so is
// check_date:currency:XBT when on-chain payments are accepted.
func (s Submission) BuildTags(now time.Time) model.Tags {
	var tags model.Tags

	add := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			tags.Set(key, value)
		}
	}

	add("name", s.Name)

	if key, value, ok := splitCategory(s.Category); ok {
		add(key, value)
	}

	add("description", s.Description)

	add("addr:housenumber", s.Address.HouseNumber)
	add("addr:street", s.Address.Street)
	add("addr:city", s.Address.City)
	add("addr:postcode", s.Address.Postcode)
	add("addr:state", s.Address.State)
	add("addr:country", s.Address.Country)

	// phone, website and email are written under both the plain and the
	// contact: key.
	add("phone", s.Contact.Phone)
	add("contact:phone", s.Contact.Phone)
	add("website", s.Contact.Website)
	add("contact:website", s.Contact.Website)
	add("email", s.Contact.Email)
	add("contact:email", s.Contact.Email)
	add("contact:facebook", s.Contact.Facebook)
	add("contact:instagram", s.Contact.Instagram)
	add("contact:twitter", s.Contact.Twitter)

	add("opening_hours", s.OpeningHours)
	add("wheelchair", s.Wheelchair)

	if s.Accepts.Any() {
		add("currency:XBT", "yes")
	}

	if s.Accepts.Onchain {
		add("payment:onchain", "yes")
	}

	if s.Accepts.Lightning {
		add("payment:lightning", "yes")
	}

	if s.Accepts.LightningContactless {
		add("payment:lightning_contactless", "yes")
	}

	var other []string

	for _, method := range s.Accepts.Other {
		if method = strings.TrimSpace(method); method != "" {
			other = append(other, method)
		}
	}

	add("payment:other", strings.Join(other, ";"))

	date := now.Format(DateLayout)
	add("check_date", date)

	if s.Accepts.Onchain {
		add("check_date:currency:XBT", date)
	}

	return tags
}
