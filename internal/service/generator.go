package service

import (
	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/model"
)

// GeneratorService runs the password pipeline for the CLI and the HTTP API.
type GeneratorService struct {
	gen        *crypto.Generator
	hashParams crypto.HashParams
}

// NewGeneratorService creates a GeneratorService backed by gen.
func NewGeneratorService(gen *crypto.Generator) *GeneratorService {
	return &GeneratorService{
		gen:        gen,
		hashParams: crypto.DefaultHashParams(),
	}
}

// Generate builds the pool for policy and draws one password from it. When
// withHash is set the response also carries an Argon2id hash of the password.
func (s *GeneratorService) Generate(policy crypto.Policy, withHash bool) (model.GenerateResponse, error) {
	pool, err := crypto.BuildCharPool(policy)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	password, err := s.gen.Generate(pool, policy.Length)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	resp := model.GenerateResponse{
		Password: password,
		Length:   len(password),
		PoolSize: pool.Len(),
	}

	if withHash {
		hash, err := s.gen.Hash(password, s.hashParams)
		if err != nil {
			return model.GenerateResponse{}, err
		}
		resp.Hash = hash
	}

	return resp, nil
}

// PolicyFromRequest applies defaults to an API request: a missing length is
// DefaultLength, missing symbol and number switches are on.
func PolicyFromRequest(req model.GenerateRequest) crypto.Policy {
	length := crypto.DefaultLength
	if req.Length != nil {
		length = *req.Length
	}

	return crypto.Policy{
		Length:         length,
		IncludeSymbols: boolOrDefault(req.Symbols, true),
		IncludeNumbers: boolOrDefault(req.Numbers, true),
		LettersOnly:    req.OnlyLetters,
	}
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
