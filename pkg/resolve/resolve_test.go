package resolve

import "testing"

func TestPatternMatcher_Match(t *testing.T) {
	tests := []struct {
		name    string
		library string
		line    string
		ident   string
		ok      bool
	}{
		{"require const", "express", `const app = require('express')`, "app", true},
		{"require let", "express", `let app = require("express");`, "app", true},
		{"require var", "axios", `var http = require('axios');`, "http", true},
		{"require spaced", "lodash", `const _ = require( 'lodash' )`, "_", true},
		{"call form", "express", `const app = express()`, "app", true},
		{"import form", "axios", `import ax from 'axios'`, "ax", true},
		{"import double quotes", "moment", `import m from "moment"`, "m", true},
		{"dotted library name", "socket.io", `const io = require('socket.io')`, "io", true},
		{"dot not wildcard", "socket.io", `const io = require('socketXio')`, "", false},
		{"wrong library", "express", `const app = require('fastify')`, "", false},
		{"no declaration", "express", `app.get('/')`, "", false},
		{"plain assignment", "express", `app = 5`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPatternMatcher(tt.library)
			ident, ok := m.Match(tt.line)
			if ok != tt.ok {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			}
			if ident != tt.ident {
				t.Errorf("Match(%q) ident = %q, want %q", tt.line, ident, tt.ident)
			}
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		name  string
		lines []string
		want  Binding
		found bool
	}{
		{
			name:  "simple require",
			lines: []string{`const app = require('express')`, `app.`},
			want:  Binding{Identifier: "app", Library: "express"},
			found: true,
		},
		{
			name: "nearest binding wins",
			lines: []string{
				`const app = require('express')`,
				`const app = require('axios')`,
				`app.`,
			},
			want:  Binding{Identifier: "app", Library: "axios"},
			found: true,
		},
		{
			name:  "import form",
			lines: []string{`import dayjs from 'dayjs'`, ``, `dayjs.`},
			want:  Binding{Identifier: "dayjs", Library: "dayjs"},
			found: true,
		},
		{
			name:  "no binding",
			lines: []string{`const x = 1`, `x.`},
			found: false,
		},
		{
			name:  "empty buffer",
			lines: nil,
			found: false,
		},
		{
			name: "indented declaration",
			lines: []string{
				`function handler() {`,
				`  const client = require('axios');`,
				`  client.`,
			},
			want:  Binding{Identifier: "client", Library: "axios"},
			found: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := r.Resolve(tt.lines)
			if found != tt.found {
				t.Fatalf("Resolve() found = %v, want %v", found, tt.found)
			}
			if found && got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSplitInput(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		column int
		want   Input
	}{
		{
			name: "member prefix", line: "app.ge", column: 6,
			want: Input{Base: "app", MemberPrefix: "ge", HasDot: true},
		},
		{
			name: "dot only", line: "app.", column: 4,
			want: Input{Base: "app", MemberPrefix: "", HasDot: true},
		},
		{
			name: "bare identifier", line: "expr", column: 4,
			want: Input{Base: "expr"},
		},
		{
			name: "mid line", line: "  app.get(x)", column: 7,
			want: Input{Base: "app", MemberPrefix: "g", HasDot: true},
		},
		{
			name: "empty line", line: "", column: 0,
			want: Input{},
		},
		{
			name: "cursor after space", line: "const ", column: 6,
			want: Input{},
		},
		{
			name: "dollar and underscore", line: "$_var1.cl", column: 9,
			want: Input{Base: "$_var1", MemberPrefix: "cl", HasDot: true},
		},
		{
			name: "column beyond line end", line: "ax", column: 10,
			want: Input{Base: "ax"},
		},
		{
			name: "negative column clamps", line: "ax", column: -3,
			want: Input{},
		},
		{
			name: "dot with no base", line: ".ge", column: 3,
			want: Input{Base: "", MemberPrefix: "ge", HasDot: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitInput(tt.line, tt.column); got != tt.want {
				t.Errorf("SplitInput(%q, %d) = %+v, want %+v", tt.line, tt.column, got, tt.want)
			}
		})
	}
}

func TestTableFor(t *testing.T) {
	table := TableFor([]string{"left-pad", "react"})
	if len(table) != 2 {
		t.Fatalf("len = %d, want 2", len(table))
	}
	ident, ok := table[0].Match(`const pad = require('left-pad')`)
	if !ok || ident != "pad" {
		t.Errorf("Match = %q, %v", ident, ok)
	}
}
