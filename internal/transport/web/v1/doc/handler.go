package doc

import (
	"log"

	"github.com/EgorLis/mdshare/internal/domain"
	"github.com/EgorLis/mdshare/internal/markdown"
)

type Handler struct {
	Log      *log.Logger
	Docs     domain.DocsRepo
	Storage  domain.BlobStorage
	Cache    domain.Cache
	Renderer *markdown.Renderer

	DocTTL  int // seconds
	ListTTL int // seconds
}
