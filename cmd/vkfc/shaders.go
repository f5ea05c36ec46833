package main

import _ "embed"

//go:generate glslangValidator -o shaders/double.spv -V100 shaders/double.comp

// doubleShader is the compiled doubling shader, included at build time.
// Regenerate with go generate after editing shaders/double.comp.
//
//go:embed shaders/double.spv
var doubleShader []byte
