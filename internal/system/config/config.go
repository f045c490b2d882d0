/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
	Format   string `yaml:"format"`
}

type AuthConfig struct {
	JWTSecret          string   `yaml:"jwt_secret"`
	Issuer             string   `yaml:"issuer"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// DataSourceConfig selects the member store. Type is either "mongodb" or "postgres".
type DataSourceConfig struct {
	Type           string `yaml:"type"`
	URI            string `yaml:"uri"`
	Hostname       string `yaml:"hostname"`
	Port           int    `yaml:"port"`
	Name           string `yaml:"name"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	SSLMode        string `yaml:"sslmode"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ReportConfig struct {
	Sink      string `yaml:"sink"`
	Dir       string `yaml:"dir"`
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type DedupeConfig struct {
	IdentityKeys []string     `yaml:"identity_keys"`
	Report       ReportConfig `yaml:"report"`
}

type Config struct {
	Addr       AddrConfig       `yaml:"addr"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	DataSource DataSourceConfig `yaml:"datasource"`
	Dedupe     DedupeConfig     `yaml:"dedupe"`
}
