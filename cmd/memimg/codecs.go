package main

import (
	"github.com/nvr-ai/go-memimg/codec"
	"github.com/nvr-ai/go-memimg/codec/vipsenc"
	"github.com/nvr-ai/go-memimg/mat"
)

// nativeEncoders are the encoders backed by OpenCV and libvips.
var nativeEncoders = []codec.Encoder{
	mat.Encoder{},
	vipsenc.Encoder{Container: vipsenc.JPEG},
	vipsenc.Encoder{Container: vipsenc.WebP},
}

func resolveEncoder(name string) (codec.Encoder, error) {
	return codec.ByName(name, nativeEncoders...)
}

func codecNames() []string {
	return codec.Names(nativeEncoders...)
}
