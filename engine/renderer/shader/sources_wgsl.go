package shader

const wgslVertexSource = `struct VertexInput {
    @location(0) position: vec2<f32>,
}

@vertex
fn vs_main(input: VertexInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(input.position, 0.0, 1.0);
}
`

// Framebuffer y grows downward in WebGPU, so the fragment coordinate is flipped
// to keep the horizon where the GL variants draw it.
const wgslFragmentSource = `struct Uniforms {
    resolution: vec2<f32>,
    time: f32,
}

@group(0) @binding(0) var<uniform> u: Uniforms;

fn fmod(x: f32, y: f32) -> f32 {
    return x - y * floor(x / y);
}

fn clock() -> f32 {
    return fmod(2.0 * u.time, 180.0);
}

fn rnd1(a: f32) -> f32 {
    return fract(sin(a * 12.233) * 78.599);
}

fn rnd2(p: vec2<f32>) -> f32 {
    return fract(sin(dot(p, p.yx + vec2<f32>(234.0, 543.0))) * 345678.0);
}

fn curve(a0: f32, b: f32) -> f32 {
    let a = a0 / b;
    return mix(rnd1(floor(a)), rnd1(floor(a) + 1.0), pow(smoothstep(0.0, 1.0, fract(a)), 10.0));
}

fn rot(a: f32) -> mat2x2<f32> {
    let s = sin(a);
    let c = cos(a);
    return mat2x2<f32>(c, -s, s, c);
}

fn scene(p: vec3<f32>) -> f32 {
    if (p.y > 0.28 || p.z > 15.0) {
        return 5e5;
    }
    let t = clock();
    var d = p.y + (1.0 - cos(sin(t + 6.3 * p.x))) * 0.1;
    d += 1.0 - pow(cos(0.75 * sin(t + curve(t * 0.5, 8.0) + 2.0 * (1.0 + curve(t * 2.5, 14.4)) * (p.xz * rot(0.125)).x)), 2.0);
    d += 1.0 - cos(curve(t * 0.2, 8.0) + sin(t + 0.8 * (p.xz * rot(0.38)).x)) * 0.1;
    d += 1.2 * sin(p.z * 0.4 + sin(p.x * 0.6 + 1.2));
    d = max(d, -p.z);
    return d * 0.5;
}

fn norm(p: vec3<f32>) -> vec3<f32> {
    let h = 1e-3;
    let k = vec2<f32>(-1.0, 1.0);
    return normalize(
        k.xyy * scene(p + k.xyy * h) +
        k.yxy * scene(p + k.yxy * h) +
        k.yyx * scene(p + k.yyx * h) +
        k.xxx * scene(p + k.xxx * h)
    );
}

fn cam(p: vec3<f32>) -> vec3<f32> {
    let xz = p.xz * rot(sin(clock() * 0.2) * 0.2);
    return vec3<f32>(xz.x, p.y, xz.y);
}

@fragment
fn fs_main(@builtin(position) frag: vec4<f32>) -> @location(0) vec4<f32> {
    let coord = vec2<f32>(frag.x, u.resolution.y - frag.y);
    let uv = (coord - 0.5 * u.resolution) / min(u.resolution.x, u.resolution.y);

    var col = vec3<f32>(0.0);
    var p = cam(vec3<f32>(0.0, 0.0, -3.0));
    let rd = cam(normalize(vec3<f32>(uv, 1.0)));

    let steps = {{steps}};
    let maxd = 15.0;
    var dd = 0.0;
    let diffuse = mix(0.75, 1.0, rnd2(p.xz));

    for (var i = 0.0; i < steps; i += 1.0) {
        let d = scene(p) * diffuse;
        if (d < 1e-3) {
            break;
        }
        if (d > maxd) {
            dd = maxd;
            break;
        }
        p += rd * d;
        dd += d;
    }

    let n = norm(p);
    let l = normalize(vec3<f32>(0.0, 10.0, -0.1));
    let dif = max(0.0, dot(n, l));
    let fre = 1.0 + max(0.0, dot(-rd, n));

    col += vec3<f32>(0.3, 0.2, 0.1);
    col += 0.2 * pow(fre, 3.2) * dif;
    col *= mix(col, vec3<f32>(0.0), 1.0 - exp(-125e-5 * dd * dd * dd));

    return vec4<f32>(col, 1.0);
}
`
