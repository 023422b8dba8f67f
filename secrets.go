package main

import (
	"github.com/jinzhu/configor"
)

// Secrets is the JSON object read from --secrets: password (for
// encryption endpoints), accessKeyId/secretAccessKey/sessionToken/region
// (for object-store endpoints). Unknown fields are ignored, which is
// configor's default decode behavior.
type Secrets struct {
	Password        string `json:"password" yaml:"password"`
	AccessKeyID     string `json:"accessKeyId" yaml:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey" yaml:"secretAccessKey"`
	SessionToken    string `json:"sessionToken" yaml:"sessionToken"`
	Region          string `json:"region" yaml:"region"`
}

// loadSecrets reads and decodes the secrets file.
func loadSecrets(path string) (Secrets, error) {
	var s Secrets
	if err := configor.Load(&s, path); err != nil {
		return s, newConfigError("reading secrets file", err)
	}
	return s, nil
}

// requirePassword returns a usage error if the secrets file didn't supply
// a password, which every enc+ endpoint needs.
func (s Secrets) requirePassword() error {
	if s.Password == "" {
		return newUsageError("secrets file is missing \"password\", required for an enc+ endpoint")
	}
	return nil
}

// requireObjectStoreFields returns a usage error if the secrets file is
// missing any field an s3:// endpoint needs.
func (s Secrets) requireObjectStoreFields() error {
	switch {
	case s.AccessKeyID == "":
		return newUsageError("secrets file is missing \"accessKeyId\", required for an s3:// endpoint")
	case s.SecretAccessKey == "":
		return newUsageError("secrets file is missing \"secretAccessKey\", required for an s3:// endpoint")
	case s.Region == "":
		return newUsageError("secrets file is missing \"region\", required for an s3:// endpoint")
	}
	return nil
}
