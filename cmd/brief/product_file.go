package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"blueprint-studio/internal/product"
)

// decodePatch reads a product file. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func decodePatch(r io.Reader) (product.Patch, error) {
	var p product.Patch
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		return p, fmt.Errorf("decode product file: %w", err)
	}
	return p, nil
}

// loadConfiguration applies a product file on top of the initial
// configuration and validates the result.
func loadConfiguration(file string) (product.Configuration, error) {
	r, closeFn, err := readerFor(file, os.Stdin)
	if err != nil {
		return product.Configuration{}, err
	}
	defer closeFn()

	p, err := decodePatch(r)
	if err != nil {
		return product.Configuration{}, err
	}

	cfg := p.Apply(product.New())
	if err := cfg.Validate(); err != nil {
		return product.Configuration{}, err
	}
	return cfg, nil
}

func readerFor(file string, stdin io.Reader) (io.Reader, func() error, error) {
	if strings.TrimSpace(file) == "-" {
		return stdin, func() error { return nil }, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
