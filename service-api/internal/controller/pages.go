package controller

// Static buyer-facing pages. These are deliberately self-contained single
// files so the service needs no asset pipeline.

const paymentFormPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Buy Access</title>
  <style>
    body { font-family: sans-serif; background: #111; color: #eee; display: flex; justify-content: center; padding-top: 10vh; }
    form { background: #1c1c1c; padding: 2rem; border-radius: 8px; width: 320px; }
    label { display: block; margin-top: 1rem; }
    input { width: 100%; padding: 0.5rem; margin-top: 0.25rem; border-radius: 4px; border: 1px solid #444; background: #222; color: #eee; }
    button { margin-top: 1.5rem; width: 100%; padding: 0.75rem; border: none; border-radius: 4px; background: #e91e63; color: #fff; font-size: 1rem; cursor: pointer; }
  </style>
</head>
<body>
  <form method="POST" action="/payments/initiate">
    <h2>Buy Livestream Access</h2>
    <label>Name
      <input type="text" name="name" required>
    </label>
    <label>Email
      <input type="email" name="email" required>
    </label>
    <button type="submit">Pay</button>
  </form>
</body>
</html>`

const thankYouPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Thank You</title>
  <style>
    body { font-family: sans-serif; background: #111; color: #eee; text-align: center; padding-top: 15vh; }
  </style>
</head>
<body>
  <h2>Thank you for your purchase!</h2>
  <p>Your watch link is on its way to your email inbox.</p>
  <p>If it does not arrive within a few minutes, check your spam folder.</p>
</body>
</html>`

const invalidTokenPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Invalid Token</title></head>
<body style="font-family:sans-serif;background:#111;color:#eee;text-align:center;padding-top:15vh">
  <h2>Invalid token</h2>
  <p>This watch link is not recognized. Check the link from your email.</p>
</body>
</html>`

const expiredTokenPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Token Expired</title></head>
<body style="font-family:sans-serif;background:#111;color:#eee;text-align:center;padding-top:15vh">
  <h2>Token expired</h2>
  <p>This watch link is past its expiry date.</p>
</body>
</html>`

// watchPage verifies the device before revealing the player. On first visit
// it posts the device signals and stores the returned identity; later visits
// re-check with the stored identity and fall back to re-registration when the
// identity is gone (e.g. kicked or cleared storage).
const watchPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Livestream</title>
  <script src="https://cdn.jsdelivr.net/npm/hls.js@1"></script>
  <style>
    body { font-family: sans-serif; background: #000; color: #eee; margin: 0; }
    #gate { text-align: center; padding-top: 20vh; }
    #player { display: none; width: 100vw; height: 100vh; }
    video { width: 100%; height: 100%; background: #000; }
  </style>
</head>
<body>
  <div id="gate"><p>Verifying your device&hellip;</p></div>
  <div id="player"><video id="video" controls autoplay playsinline></video></div>
  <script>
    var TOKEN = "{{TOKEN}}";
    var PLAYBACK_URL = "{{PLAYBACK_URL}}";
    var IDENTITY_KEY = "ppv-identity-" + TOKEN;

    function deny(message) {
      document.getElementById("gate").innerHTML = "<p>" + message + "</p>";
    }

    function startPlayer() {
      document.getElementById("gate").style.display = "none";
      document.getElementById("player").style.display = "block";
      var video = document.getElementById("video");
      if (video.canPlayType("application/vnd.apple.mpegurl")) {
        video.src = PLAYBACK_URL;
      } else if (Hls.isSupported()) {
        var hls = new Hls();
        hls.loadSource(PLAYBACK_URL);
        hls.attachMedia(video);
      } else {
        deny("Your browser cannot play this stream.");
      }
    }

    function register() {
      fetch("/verify?v=" + encodeURIComponent(TOKEN), {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify({
          userAgent: navigator.userAgent,
          screenSize: screen.width + "x" + screen.height,
          timezone: Intl.DateTimeFormat().resolvedOptions().timeZone
        })
      }).then(function (res) {
        if (!res.ok) {
          deny(res.status === 403
            ? "This token is locked to another device."
            : "Verification failed. Try again later.");
          return;
        }
        res.json().then(function (data) {
          localStorage.setItem(IDENTITY_KEY, data.identity);
          startPlayer();
        });
      }).catch(function () {
        deny("Verification failed. Try again later.");
      });
    }

    var identity = localStorage.getItem(IDENTITY_KEY);
    if (identity) {
      fetch("/verify?v=" + encodeURIComponent(TOKEN) + "&id=" + encodeURIComponent(identity))
        .then(function (res) {
          if (res.ok) {
            startPlayer();
          } else {
            localStorage.removeItem(IDENTITY_KEY);
            register();
          }
        })
        .catch(function () { register(); });
    } else {
      register();
    }
  </script>
</body>
</html>`
