/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"testing"
)

// fakeStore stubs the OS keyring for tests.
type fakeStore struct{ vals map[string]string }

func (f *fakeStore) Get(service, key string) (string, error) { return f.vals[service+"/"+key], nil }
func (f *fakeStore) Set(service, key, value string) error {
	f.vals[service+"/"+key] = value
	return nil
}
func (f *fakeStore) Delete(service, key string) error {
	delete(f.vals, service+"/"+key)
	return nil
}

func withFakeStore(t *testing.T) *fakeStore {
	t.Helper()
	old := tokenStore
	f := &fakeStore{vals: map[string]string{}}
	tokenStore = f
	t.Cleanup(func() { tokenStore = old })
	return f
}

func TestEnvOverridesBackendDSN(t *testing.T) {
	withFakeStore(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvBackendDSN, "postgres://writer@db.test:5432/scripts")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Backend.DSN, "postgres://writer@db.test:5432/scripts"; got != want {
		t.Fatalf("Backend.DSN = %q, want %q", got, want)
	}
}

func TestEnvOverridesTelemetry(t *testing.T) {
	withFakeStore(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvTelemetryOptIn, "true")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestMergeIncludesBackendAndLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Backend.Enabled = true
	src.Backend.DSN = "postgres://localhost/scripts"
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/gsw.log"
	mergeInto(&dst, &src)
	if !dst.Backend.Enabled || dst.Backend.DSN != "postgres://localhost/scripts" {
		t.Fatalf("backend fields not merged: %#v", dst.Backend)
	}
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/gsw.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	f := withFakeStore(t)
	t.Setenv("HOME", t.TempDir())

	cfg := Defaults()
	cfg.Backend.Enabled = true
	cfg.Backend.DSN = "postgres://localhost/scripts"
	if err := Save(cfg, "secret-token"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, tok, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !got.Backend.Enabled || got.Backend.DSN != cfg.Backend.DSN {
		t.Fatalf("roundtrip mismatch: %#v", got.Backend)
	}
	if tok != "secret-token" {
		t.Fatalf("expected token from keyring, got %q", tok)
	}
	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken error: %v", err)
	}
	if len(f.vals) != 0 {
		t.Fatalf("token not deleted: %+v", f.vals)
	}
}

func TestEnvOverrideFor(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	if name, ok := EnvOverrideFor("logging.level"); !ok || name != EnvLogLevel {
		t.Fatalf("expected override for logging.level, got %q %v", name, ok)
	}
	if _, ok := EnvOverrideFor("unknown.key"); ok {
		t.Fatalf("unexpected override for unknown key")
	}
}
