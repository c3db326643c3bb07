package landing

import "html/template"

var pageTemplate = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <style nonce="{{.Nonce}}">
        * { margin: 0; padding: 0; box-sizing: border-box; }
        :focus-visible { outline: 2px solid #60a5fa; outline-offset: 2px; }
        html, body { background: #000; color: #fff; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            -webkit-font-smoothing: antialiased;
        }
        section {
            min-height: 100vh;
            display: flex;
            flex-direction: column;
            justify-content: center;
            align-items: center;
            padding: 2rem 1.5rem;
        }
        .hero { text-align: center; }
        .hero h1 {
            font-size: clamp(2rem, 5vw, 3.75rem);
            font-weight: 700;
            margin-bottom: 1rem;
            background: linear-gradient(90deg, #fb923c, #4ade80, #3b82f6);
            -webkit-background-clip: text;
            background-clip: text;
            color: transparent;
        }
        .hero .lede { font-size: 1.25rem; max-width: 42rem; margin-bottom: 2rem; }
        .player {
            position: relative;
            width: 100%;
            max-width: 48rem;
            aspect-ratio: 16 / 9;
            background: #1f2937;
            border-radius: 1rem;
            overflow: hidden;
            margin-bottom: 1rem;
        }
        video { width: 100%; height: 100%; object-fit: cover; }
        .overlay {
            position: absolute;
            inset: 0;
            display: flex;
            align-items: center;
            justify-content: center;
            padding: 1rem;
            background: rgba(0, 0, 0, 0.7);
            backdrop-filter: blur(4px);
            z-index: 50;
        }
        .overlay[hidden], .panel[hidden] { display: none; }
        .panel { width: 100%; max-width: 24rem; text-align: center; }
        .panel h3 { font-size: 1.25rem; margin-bottom: 1rem; }
        .panel input {
            width: 100%;
            padding: 0.5rem 1rem;
            margin-bottom: 0.75rem;
            border: 1px solid #374151;
            border-radius: 9999px;
            background: rgba(55, 65, 81, 0.5);
            color: #fff;
            font-size: 0.875rem;
        }
        .panel button, .unlock {
            border: none;
            border-radius: 9999px;
            color: #fff;
            cursor: pointer;
            font-weight: 500;
        }
        .panel button { background: #3b82f6; padding: 0.5rem 1.5rem; font-size: 0.875rem; }
        .panel fieldset { border: 0; margin: 0; padding: 0; }
        .panel fieldset:disabled { opacity: 0.5; }
        .panel fieldset:disabled button { cursor: not-allowed; }
        .error { color: #f87171; font-size: 0.8rem; margin-bottom: 0.75rem; min-height: 1rem; }
        .spinner {
            width: 2rem; height: 2rem; margin: 0 auto;
            border: 2px solid #fff; border-top-color: transparent; border-radius: 50%;
            animation: spin 1s linear infinite;
        }
        @keyframes spin { to { transform: rotate(360deg); } }
        .hint { color: #9ca3af; font-size: 0.875rem; margin-bottom: 1rem; }
        .unlock { background: linear-gradient(90deg, #fb923c, #3b82f6); padding: 0.75rem 1.5rem; font-size: 1.125rem; }
        .info { background: linear-gradient(135deg, #18181b, #000); }
        .info h2 { font-size: clamp(1.75rem, 4vw, 3rem); font-weight: 600; margin-bottom: 3rem; text-align: center; }
        .columns { display: grid; grid-template-columns: repeat(auto-fit, minmax(18rem, 1fr)); gap: 3rem; max-width: 72rem; }
        .columns h3 { font-size: 1.25rem; margin-bottom: 0.5rem; }
        .columns li { color: #d1d5db; font-size: 1.125rem; margin-left: 1.25rem; }
        .ovp { color: #fdba74; }
        .ott { color: #93c5fd; }
        .deploy { margin-top: 5rem; text-align: center; }
        .deploy h4 { font-size: 1.25rem; margin-bottom: 1rem; }
        .cards { display: flex; flex-wrap: wrap; gap: 2rem; justify-content: center; }
        .card { background: #27272a; padding: 1.5rem; border-radius: 0.75rem; width: 16rem; }
        .card p { color: #9ca3af; font-size: 0.875rem; }
        footer { color: #6b7280; font-size: 0.875rem; margin-top: 5rem; text-align: center; }
    </style>
</head>
<body>
    <section class="hero" id="section-hero">
        <h1>Stop Losing Viewers After the Play.</h1>
        <p class="lede">Canvas AEM is a plug-and-play conditional access layer that lets OTT platforms, OVPs, and media tech vendors unlock engagement, capture verified user data, and monetize smarter, right inside the video experience.</p>
        <div class="player">
            <video id="demo-video" src="{{.VideoURL}}" controls autoplay muted playsinline controlslist="nodownload nopictureinpicture" disablepictureinpicture></video>
            <div class="overlay" id="gate-overlay" hidden>
                <div class="panel" id="panel-form" hidden>
                    <h3>Here you can collect your First-Party Data by</h3>
                    <p class="error" id="gate-error"></p>
                    <form id="gate-form" novalidate>
                        <fieldset id="gate-fields">
                        <input name="name" type="text" placeholder="Your Name" maxlength="{{index .Limits "name"}}" required>
                        <input name="email" type="email" placeholder="Your Email" maxlength="{{index .Limits "email"}}" required>
                        <input name="company" type="text" placeholder="Your Company" maxlength="{{index .Limits "company"}}" required>
                        <button type="submit" id="gate-submit">Submit</button>
                        </fieldset>
                    </form>
                </div>
                <div class="panel" id="panel-unlocking" hidden>
                    <h3>Unlocking your content...</h3>
                    <div class="spinner"></div>
                </div>
                <div class="panel" id="panel-alreadyUnlocked" hidden>
                    <h3>Content Already Unlocked</h3>
                </div>
            </div>
        </div>
        <p class="hint">Experience how Canvas AEM turns passive plays into active conversions. The first {{.ThresholdSeconds}} seconds are free.</p>
        <button class="unlock" id="unlock-button" type="button">Unlock Full Experience</button>
    </section>
    <section class="info" id="section-info">
        <h2>Built for Modern Media Workflows</h2>
        <div class="columns">
            <div>
                <h3 class="ovp">For OVPs &amp; Backend Platforms</h3>
                <ul>
                    <li>Add Canvas AEM as a layer on top of your player stack</li>
                    <li>Offer first-party engagement tools to your customers</li>
                    <li>Plug into your existing APIs over REST or GraphQL</li>
                </ul>
            </div>
            <div>
                <h3 class="ott">For OTT &amp; SVOD/AVOD Platforms</h3>
                <ul>
                    <li>Capture viewer data post-play without disrupting UX</li>
                    <li>Unlock access to premium content, episodes, or offers</li>
                    <li>Drive retention and monetization with intent-based triggers</li>
                </ul>
            </div>
        </div>
        <div class="deploy">
            <h4>Deployment Options</h4>
            <div class="cards">
                <div class="card"><h5>On Cloud</h5><p>Ready-to-integrate via REST APIs</p></div>
                <div class="card"><h5>On Prem</h5><p>Full control with custom integration options</p></div>
            </div>
        </div>
        <footer>&copy;2024 Canvas Space Inc. | hello@canvas.space | Terms &amp; Privacy</footer>
    </section>
    <script nonce="{{.Nonce}}">
        (function() {
            var video = document.getElementById('demo-video');
            var overlay = document.getElementById('gate-overlay');
            var form = document.getElementById('gate-form');
            var errEl = document.getElementById('gate-error');
            var fieldset = document.getElementById('gate-fields');
            var panels = {
                form: document.getElementById('panel-form'),
                unlocking: document.getElementById('panel-unlocking'),
                alreadyUnlocked: document.getElementById('panel-alreadyUnlocked')
            };
            var session = null;
            var state = 'hidden';
            var lastReport = 0;
            var scrollQueued = false;
            var fieldTimers = {};

            function api(path, method, body) {
                return fetch('/api/sessions/' + session.id + path, {
                    method: method,
                    headers: {'Content-Type': 'application/json', 'Authorization': 'Bearer ' + session.token},
                    body: body ? JSON.stringify(body) : undefined
                }).then(function(r) {
                    if (r.status === 204) { return null; }
                    return r.json().then(function(d) {
                        if (!r.ok) { var e = new Error(d.error || 'Something went wrong'); e.body = d; throw e; }
                        return d;
                    });
                });
            }

            function run(c) {
                switch (c.kind) {
                case 'pause': video.pause(); break;
                case 'play': video.play().catch(function() {}); break;
                case 'seek': video.currentTime = c.time; break;
                case 'exitFullscreen':
                    if (document.fullscreenElement) { document.exitFullscreen().catch(function() {}); }
                    break;
                case 'requestFullscreen':
                    if (video.requestFullscreen) { video.requestFullscreen().catch(function() {}); }
                    break;
                case 'scrollTo': window.scrollTo({top: c.top, behavior: 'smooth'}); break;
                }
            }

            function apply(snap) {
                if (!snap) { return; }
                if (snap.snapshot) { snap = snap.snapshot; }
                (snap.commands || []).forEach(run);
                state = snap.state;
                overlay.hidden = !snap.overlay;
                Object.keys(panels).forEach(function(k) { panels[k].hidden = snap.overlay !== k; });
                fieldset.disabled = state !== 'formVisible';
            }

            function fail(err) {
                if (err && err.body && (err.body.missing || err.body.invalid)) {
                    var parts = [];
                    if (err.body.missing) { parts.push('Please fill in ' + err.body.missing.join(', ')); }
                    if (err.body.invalid) { parts.push('Please check ' + err.body.invalid.join(', ')); }
                    errEl.textContent = parts.join('. ');
                    return;
                }
                errEl.textContent = (err && err.message) || 'Something went wrong';
            }

            function playback(event) {
                if (!session) { return; }
                api('/playback', 'POST', {
                    event: event,
                    currentTime: video.currentTime,
                    paused: video.paused,
                    fullscreen: !!document.fullscreenElement
                }).then(apply).catch(fail);
            }

            video.addEventListener('timeupdate', function() {
                if (!session) { return; }
                var now = Date.now();
                var near = video.currentTime >= session.thresholdSeconds - 0.5;
                var gating = state === 'hidden' || state === 'formVisible';
                if ((gating && near) || now - lastReport > 5000) {
                    lastReport = now;
                    playback('timeupdate');
                }
            });
            video.addEventListener('seeked', function() { playback('seeked'); });
            document.addEventListener('fullscreenchange', function() { playback('report'); });

            form.addEventListener('input', function(e) {
                var name = e.target.name;
                clearTimeout(fieldTimers[name]);
                fieldTimers[name] = setTimeout(function() {
                    var fields = {};
                    fields[name] = e.target.value;
                    api('/form', 'PATCH', {fields: fields}).then(apply).catch(fail);
                }, 200);
            });

            form.addEventListener('submit', function(e) {
                e.preventDefault();
                errEl.textContent = '';
                Object.keys(fieldTimers).forEach(function(k) { clearTimeout(fieldTimers[k]); });
                var fields = {};
                Array.prototype.forEach.call(form.elements, function(el) {
                    if (el.name) { fields[el.name] = el.value; }
                });
                fieldset.disabled = true;
                api('/form', 'PATCH', {fields: fields})
                    .then(function() { return api('/submit', 'POST'); })
                    .then(apply)
                    .catch(function(err) { fieldset.disabled = state !== 'formVisible'; fail(err); });
            });

            document.getElementById('unlock-button').addEventListener('click', function() {
                if (!session) { return; }
                api('/gate', 'POST').then(apply).catch(fail);
            });

            window.addEventListener('scroll', function() {
                if (!session || scrollQueued) { return; }
                scrollQueued = true;
                window.requestAnimationFrame(function() {
                    scrollQueued = false;
                    api('/scroll', 'POST', {scrollY: window.scrollY, viewportHeight: window.innerHeight}).catch(function() {});
                });
            }, {passive: true});

            window.addEventListener('pagehide', function() {
                if (!session) { return; }
                fetch('/api/sessions/' + session.id, {
                    method: 'DELETE',
                    headers: {'Authorization': 'Bearer ' + session.token},
                    keepalive: true
                });
            });

            fetch('/api/sessions', {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify({fullscreenSupported: !!document.fullscreenEnabled})
            }).then(function(r) { return r.json(); }).then(function(s) {
                session = s;
                var stream = new EventSource('/api/sessions/' + s.id + '/stream?token=' + encodeURIComponent(s.token));
                stream.addEventListener('snapshot', function(e) { apply(JSON.parse(e.data)); });
                stream.addEventListener('closed', function() { stream.close(); });
                playback('report');
            }).catch(function() {});
        })();
    </script>
</body>
</html>`))
