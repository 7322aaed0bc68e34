package domain

import "errors"

var (
	// ErrIndexUnavailable signals that the catalog index cannot serve similarity queries.
	ErrIndexUnavailable = errors.New("catalog index unavailable")
	// ErrCatalogNotLoaded signals that no corpus snapshot has been loaded yet.
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrClassifierUnavailable signals that the LLM classifier could not be used.
	ErrClassifierUnavailable = errors.New("llm classifier unavailable")
	// ErrDescriberUnavailable signals that the image description collaborator failed.
	ErrDescriberUnavailable = errors.New("image describer unavailable")
	// ErrImageRequired signals an image-intent request without an image payload.
	ErrImageRequired = errors.New("image payload required")
)
