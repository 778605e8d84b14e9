// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

package sliceedit

import (
	"reflect"
	"testing"
)

func TestFindAll(t *testing.T) {
	tests := []struct {
		buf  string
		item string
		want []int
	}{
		{"aXbXc", "X", []int{1, 3}},
		{"aaaa", "aa", []int{0, 2}},
		{"abc", "z", []int{}},
		{"abc", "", []int{}},
	}
	for _, tt := range tests {
		if got := FindAll([]byte(tt.buf), tt.item); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FindAll(%q, %q) = %v, want %v", tt.buf, tt.item, got, tt.want)
		}
	}
}

func TestReplaceAllString(t *testing.T) {
	b := NewBuffer([]byte("one, two, three"))
	b.ReplaceAllString(", ", "; ")
	if got := b.String(); got != "one; two; three" {
		t.Errorf("got %q", got)
	}
}

func TestDeleteAllString(t *testing.T) {
	b := NewBuffer([]byte("a--b--c"))
	b.DeleteAllString("--")
	if got := b.String(); got != "abc" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeSource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bom", "\xef\xbb\xbf# Title\n", "# Title\n"},
		{"crlf", "a\r\nb\r\n", "a\nb\n"},
		{"lone cr", "a\rb\r", "a\nb\n"},
		{"form feed", "a\fb\n", "ab\n"},
		{"mixed", "\xef\xbb\xbfa\r\nb\rc\f\n", "a\nb\nc\n"},
		{"clean input untouched", "plain\n", "plain\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []byte(tt.in)
			if got := NormalizeSource(in); string(got) != tt.want {
				t.Errorf("NormalizeSource(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if string(in) != tt.in {
				t.Error("input slice was modified")
			}
		})
	}
}
