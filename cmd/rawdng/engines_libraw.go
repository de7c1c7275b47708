//go:build libraw

package main

import _ "github.com/weaming/rawdng-go/rawengine/libraw"
