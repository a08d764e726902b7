package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot decodes all possible top-level blocks from any file.
type fileRoot struct {
	Blueprint *blueprintBlock `hcl:"blueprint,block"`
	Globals   []*globalBlock  `hcl:"global,block"`
	Server    *serverBlock    `hcl:"server,block"`
	Notify    *notifyBlock    `hcl:"notify,block"`
	Remain    hcl.Body        `hcl:",remain"`
}

type blueprintBlock struct {
	URL     *string `hcl:"url,optional"`
	Timeout *string `hcl:"timeout,optional"`
}

// globalBlock is `global "<key>" { ... }`. Type and Value stay expressions
// so that `type = string` can be read as a type keyword.
type globalBlock struct {
	Key         string         `hcl:"key,label"`
	Description *string        `hcl:"description,optional"`
	Type        hcl.Expression `hcl:"type,optional"`
	Value       hcl.Expression `hcl:"value,optional"`
}

type serverBlock struct {
	Port         *int    `hcl:"port,optional"`
	HighlightTTL *string `hcl:"highlight_ttl,optional"`
}

type notifyBlock struct {
	URL                string  `hcl:"url"`
	Namespace          *string `hcl:"namespace,optional"`
	InsecureSkipVerify *bool   `hcl:"insecure_skip_verify,optional"`
}
